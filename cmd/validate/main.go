package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/token-hud/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scene.yaml|scene.json>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &SceneValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}

	if failed {
		os.Exit(1)
	}
}

type SceneValidator struct {
	errors []string
}

func (v *SceneValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if _, err := scene.FormatFor(filename); err != nil {
		return err
	}

	baseName := filepath.Base(filename)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if !isValidSceneFilename(nameWithoutExt) {
		return fmt.Errorf("scene filename '%s' must be lowercase kebab-case (e.g., bamboo-grove.yaml, not Bamboo_Grove.yaml)", baseName)
	}

	f, err := scene.ReadFile(filename)
	if err != nil {
		return err
	}

	v.errors = nil
	v.validateScene(f)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *SceneValidator) validateScene(f *scene.File) {
	for _, problem := range scene.Validate(f) {
		v.addError(problem)
	}

	v.validateIDFormat("scene ID", f.ID)
	for _, a := range f.Actors {
		v.validateIDFormat("actor ID", a.ID)
		for _, item := range a.Items {
			v.validateIDFormat(fmt.Sprintf("actor %q item ID", a.ID), item.ID)
		}
	}
	for _, t := range f.Tokens {
		v.validateIDFormat("token ID", t.ID)
	}
}

func (v *SceneValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase kebab-case", fieldName, id))
	}
}

func (v *SceneValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidSceneFilename(name string) bool {
	// Allow 'x.' prefix for experimental scenes
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
