package mfs

import "strings"

// splitPath turns an absolute slash separated path into its components.
// The root is returned as an empty slice.
func splitPath(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, ErrInvalidPath
	}
	var parts []string
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "":
			continue
		case ".", "..":
			return nil, ErrInvalidPath
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func joinPath(parts []string) string {
	return "/" + strings.Join(parts, "/")
}

// Join appends name to a directory path.
func Join(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
