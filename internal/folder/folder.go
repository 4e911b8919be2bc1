package folder

import "path/filepath"

// Names resolved relative to the web application directory.
const (
	STREAMLIT_CONFIG_DIR  = ".streamlit"
	STREAMLIT_CONFIG_FILE = "config.toml"
	DATABASE_FILE         = "bus_management.db"
)

// StreamlitConfigPath returns the path of the web application settings file
// inside the given application directory.
func StreamlitConfigPath(applicationDir string) string {
	return filepath.Join(applicationDir, STREAMLIT_CONFIG_DIR, STREAMLIT_CONFIG_FILE)
}
