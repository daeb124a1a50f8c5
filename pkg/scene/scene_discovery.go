package scene

import (
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, passed to Build
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Group       string `json:"group"` // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	groupClassic  = "Classic Scenes"
	groupCornell  = "Cornell Box"
	groupShowcase = "Showcase"
)

type registryEntry struct {
	info  SceneInfo
	build builder
}

// registry lists every built-in scene in menu order
var registry = []registryEntry{
	{SceneInfo{ID: "default", Description: "Diffuse ground and a mirror sphere under a sky gradient", Group: groupClassic}, buildDefaultScene},
	{SceneInfo{ID: "demo", Description: "Field of random small spheres with three large ones and depth of field", Group: groupClassic}, buildDemoScene},
	{SceneInfo{ID: "test", Description: "Metal and nested glass spheres on a small planet", Group: groupClassic}, buildTestScene},
	{SceneInfo{ID: "quads", Description: "Five colored quads facing the camera", Group: groupShowcase}, buildQuadsScene},
	{SceneInfo{ID: "cornell", Description: "Cornell box with a rotated block, a glass sphere and an area light", Group: groupCornell}, buildCornellScene},
	{SceneInfo{ID: "cornell-smoke", Description: "Cornell box with blocks of smoke and fog", Group: groupCornell}, buildCornellSmokeScene},
	{SceneInfo{ID: "dark", Description: "Emissive sphere and quad lighting noise textured objects", Group: groupShowcase}, buildDarkScene},
	{SceneInfo{ID: "textures", Description: "Checker, image and marble textures", Group: groupShowcase}, buildTextureScene},
}

func lookup(id string) (registryEntry, bool) {
	for _, entry := range registry {
		if entry.info.ID == id {
			return entry, true
		}
	}
	return registryEntry{}, false
}

// SceneIDs returns the IDs of all built-in scenes in menu order
func SceneIDs() []string {
	ids := make([]string, len(registry))
	for i, entry := range registry {
		ids[i] = entry.info.ID
	}
	return ids
}

// ListScenes returns metadata for all built-in scenes in menu order
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(registry))
	for i, entry := range registry {
		info := entry.info
		if info.DisplayName == "" {
			info.DisplayName = titleCase(info.ID)
		}
		scenes[i] = info
	}
	return scenes
}

// ListAllScenes returns the built-in scenes grouped by category,
// classic scenes first and the remaining groups alphabetically
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range ListScenes() {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != groupClassic {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if classic, exists := groupMap[groupClassic]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: groupClassic, Scenes: classic})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// titleCase converts an ID-style string to title case
// e.g., "cornell-smoke" -> "Cornell Smoke"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
