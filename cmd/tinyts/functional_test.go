package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/tinyts/internal/config"
)

// TestFunctional runs each term file under testdata/ through the command
// and compares output with its .want file.
func TestFunctional(t *testing.T) {
	var testFiles []string
	err := filepath.Walk("testdata", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range config.SourceFileExtensions {
			if strings.HasSuffix(path, ext) {
				wantFile := strings.TrimSuffix(path, ext) + ".want"
				if _, err := os.Stat(wantFile); err == nil {
					testFiles = append(testFiles, path)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk testdata: %v", err)
	}
	if len(testFiles) == 0 {
		t.Skip("No test files with .want found")
	}

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), filepath.Ext(testFile))

		t.Run(testName, func(t *testing.T) {
			ext := filepath.Ext(testFile)
			wantBytes, err := os.ReadFile(strings.TrimSuffix(testFile, ext) + ".want")
			if err != nil {
				t.Fatalf("Failed to read .want file: %v", err)
			}

			var stdout bytes.Buffer
			run([]string{"--no-cache", "--color", "never", testFile}, &stdout)

			// Paths are reported relative to testdata/
			got := strings.ReplaceAll(stdout.String(), filepath.Dir(testFile)+string(filepath.Separator), "")
			got = strings.TrimSpace(strings.ReplaceAll(got, "\r\n", "\n"))
			want := strings.TrimSpace(strings.ReplaceAll(string(wantBytes), "\r\n", "\n"))

			if got != want {
				t.Errorf("Output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}
