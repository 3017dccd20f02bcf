package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed embedded_schemas
var schemaFS embed.FS

// SchemaInfo holds schema metadata.
type SchemaInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// knownSchemas maps registry names to embed paths. Update when adding a record kind.
var knownSchemas = map[string]string{
	"world-v1":  "embedded_schemas/content/v1/world.yaml",
	"lesson-v1": "embedded_schemas/content/v1/lesson.yaml",
	"scene-v1":  "embedded_schemas/content/v1/scene.yaml",
}

// GetSchema returns the embedded schema bytes by path (e.g., "embedded_schemas/content/v1/scene.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := schemaFS.ReadFile(relPath)
	return data, err == nil
}

// GetSchemaNames returns the embedded schemas sorted by name.
func GetSchemaNames() []SchemaInfo {
	infos := make([]SchemaInfo, 0, len(knownSchemas))
	for name, path := range knownSchemas {
		if _, ok := GetSchema(path); ok {
			infos = append(infos, SchemaInfo{Name: name, Path: path})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// GetSchemasFS exposes the schema tree rooted at embedded_schemas.
func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(schemaFS, "embedded_schemas"); err == nil {
		return sub
	}
	return schemaFS
}
