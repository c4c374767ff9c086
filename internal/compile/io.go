package compile

import (
	"os"

	"github.com/cubent-lang/cubent/internal/token"
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func tokenZero() token.Position { return token.Position{} }
