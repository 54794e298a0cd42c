// Package view renders named views for the handlers.
package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Renderer writes the named view with the given status and data.
type Renderer interface {
	Render(c *gin.Context, status int, name string, data gin.H)
}

// HTMLRenderer renders templates loaded into the gin engine. Templates are
// addressed by their defined name, e.g. {{define "account/login"}}.
type HTMLRenderer struct{}

// NewHTMLRenderer loads every regular file below dir, at any depth, into
// engine. It fails when the directory holds no templates or one of them
// does not parse.
func NewHTMLRenderer(engine *gin.Engine, dir string) (*HTMLRenderer, error) {
	files, err := templateFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}
	// LoadHTMLFiles panics on a parse error; surface it as an error first.
	if _, err := template.New("").Funcs(engine.FuncMap).ParseFiles(files...); err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", dir, err)
	}
	engine.LoadHTMLFiles(files...)
	return &HTMLRenderer{}, nil
}

func templateFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read views dir %s: %w", dir, err)
	}
	return files, nil
}

func (HTMLRenderer) Render(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, data)
}

// JSONRenderer writes the view data as JSON with the view name under "view".
// It serves as the fallback when no templates are installed.
type JSONRenderer struct{}

func (JSONRenderer) Render(c *gin.Context, status int, name string, data gin.H) {
	out := gin.H{"view": name}
	for k, v := range data {
		out[k] = v
	}
	c.JSON(status, out)
}

// New returns an HTMLRenderer for dir, or a JSONRenderer and the load error
// when dir has no templates.
func New(engine *gin.Engine, dir string) (Renderer, error) {
	r, err := NewHTMLRenderer(engine, dir)
	if err != nil {
		return JSONRenderer{}, err
	}
	return r, nil
}
