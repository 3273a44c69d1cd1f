package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoadEnvFile adds the variables of the dotenv files to the process environment.
// Variables already set are kept and missing files are skipped.
func LoadEnvFile(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

// FromFile read and parse config from given path and apply environment on it
func FromFile(filePath string, cfg interface{}) error {
	t, err := template.ParseFiles(filePath)
	if err != nil {
		return err
	}
	return render(t, cfg)
}

// FromString parses an inline config the same way FromFile does.
func FromString(content string, cfg interface{}) error {
	t, err := template.New("config").Parse(content)
	if err != nil {
		return err
	}
	return render(t, cfg)
}

// render executes the template with the process environment. Both {{.VAR}} and
// ${VAR} references are expanded before the YAML is decoded.
func render(t *template.Template, cfg interface{}) error {
	strWriter := &strings.Builder{}
	if err := t.Execute(strWriter, environment()); err != nil {
		return err
	}

	content := os.ExpandEnv(strWriter.String())
	return yaml.Unmarshal([]byte(content), cfg)
}

func environment() map[string]string {
	envMap := make(map[string]string)
	for _, envStr := range os.Environ() {
		key, value, _ := strings.Cut(envStr, "=")
		envMap[key] = value
	}
	return envMap
}
