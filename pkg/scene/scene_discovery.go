package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier: the built-in name or "file:<basename>"
	Name        string // Scene name
	DisplayName string // Display name including the variant
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "file"
	FilePath    string // Path to the scene description (file type only)
	Variant     string // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

const builtinGroup = "Built-in Scenes"

var builtinDescriptions = map[string]string{
	"default":      "Spheres with every shader type over a ground plane",
	"cornell":      "Cornell box with a mirror and a diffuse sphere",
	"spheregrid":   "Grid of Blinn-Phong and mirror spheres",
	"trianglemesh": "Box, pyramid and icosahedron built from triangles",
	"shadows":      "Colored shadows from three point lights",
	"normals":      "Surface normal visualization",
}

// ListBuiltinScenes returns metadata for every registered built-in scene
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			DisplayName: titleCase(name),
			Description: builtinDescriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}
	return scenes
}

// ListSceneFiles scans dir for YAML scene descriptions. A missing directory
// yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		sceneInfo, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneFileMetadata extracts metadata from the leading comment block of
// a scene file:
//
//	# Scene: Cornell Box
//	# Variant: Empty Room
//	# Description: Classic Cornell box with no objects
//	# Group: Cornell Variants
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          "file:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// Unreadable files keep their fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}
		if !strings.HasPrefix(line, "# ") {
			continue
		}

		content := strings.TrimPrefix(line, "# ")
		switch {
		case strings.HasPrefix(content, "Scene:"):
			sceneInfo.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Variant:"):
			sceneInfo.Variant = strings.TrimSpace(strings.TrimPrefix(content, "Variant:"))
		case strings.HasPrefix(content, "Description:"):
			sceneInfo.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			sceneInfo.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns built-in scenes and the scene files found in dir,
// grouped by category with built-in scenes first
func ListAllScenes(dir string) ([]SceneGroup, error) {
	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(ListBuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	var groups []SceneGroup
	if scenes, exists := groupMap[builtinGroup]; exists {
		groups = append(groups, SceneGroup{Name: builtinGroup, Scenes: scenes})
	}
	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
