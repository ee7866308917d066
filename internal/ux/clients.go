package ux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoClients is returned when the output directory holds no client folders.
var ErrNoClients = errors.New("no client folders found")

// Client is one document folder under the output directory.
type Client struct {
	Name      string
	Path      string
	Documents int // files with the artifact extension
}

// ListClients returns the client folders under base sorted by name, counting
// the files in each that carry ext. Hidden directories are skipped.
func ListClients(base, ext string) ([]Client, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	suffix := "." + strings.TrimPrefix(ext, ".")
	var clients []Client
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		c := Client{Name: e.Name(), Path: filepath.Join(base, e.Name())}
		if files, err := os.ReadDir(c.Path); err == nil {
			for _, f := range files {
				if !f.IsDir() && strings.EqualFold(filepath.Ext(f.Name()), suffix) {
					c.Documents++
				}
			}
		}
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

// ResolveClient returns the folder for client under base, or an error when it
// does not exist. Surrounding whitespace in the name is ignored.
func ResolveClient(base, client string) (string, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return "", errors.New("client name is empty")
	}
	dir := filepath.Join(base, client)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("client folder not found at %s", dir)
		}
		return "", fmt.Errorf("stat client folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("client folder %s is not a directory", dir)
	}
	return dir, nil
}
