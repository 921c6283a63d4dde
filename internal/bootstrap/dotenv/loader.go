package dotenv

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadOnce loads environment variables from a .env file exactly once per
// process. Priority:
// 1) ENV_FILE if set (single path)
// 2) .env walking up from this source file until the repo root
// 3) .env in the current working directory
// Skips entirely when NO_DOTENV=1.
func LoadOnce() {
	once.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	// Existing OS/CI variables win unless DOTENV_OVERLOAD=1.
	overload := os.Getenv("DOTENV_OVERLOAD") == "1"
	load := func(paths ...string) {
		if overload {
			_ = godotenv.Overload(paths...)
		} else {
			_ = godotenv.Load(paths...)
		}
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		load(envFile)
		return
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		dir := filepath.Dir(file)
		for i := 0; i < 8; i++ {
			load(filepath.Join(dir, ".env"))
			if exists(filepath.Join(dir, "go.mod")) || exists(filepath.Join(dir, ".git")) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
		return
	}

	load(".env")
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
