package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fontExtensions are the font file types considered installed fonts.
var fontExtensions = map[string]bool{
	".ttf": true, ".ttc": true, ".otf": true, ".otc": true, ".dfont": true, ".pfb": true,
}

// fontAliases maps normalized family names to file-name stems used by
// platforms that ship short font file names.
var fontAliases = map[string][]string{
	"couriernew":    {"cour"},
	"timesnewroman": {"times"},
	"arial":         {"arial"},
}

// detectFonts returns the candidates with a matching font file under dirs, in
// candidate order. It fails only when none of dirs can be read.
func detectFonts(ctx context.Context, candidates []string, dirs []string) ([]string, error) {
	installed, err := installedFontStems(ctx, dirs)
	if err != nil {
		return nil, err
	}

	detected := []string{}
	for _, font := range candidates {
		if fontInstalled(installed, font) {
			detected = append(detected, font)
		}
	}

	return detected, nil
}

// installedFontStems walks dirs and returns the normalized stems of font files.
func installedFontStems(ctx context.Context, dirs []string) ([]string, error) {
	var stems []string
	readable := 0

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		readable++

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				// Unreadable subtrees are skipped.
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}

				return nil
			}
			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(d.Name()))
			if fontExtensions[ext] {
				stems = append(stems, normalizeFontName(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))))
			}

			return nil
		})
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}
	}

	if readable == 0 {
		return nil, fmt.Errorf("font directories: %w", ErrNotFound)
	}

	return stems, nil
}

// fontInstalled reports whether any stem starts with the normalized family
// name of font or one of its aliases.
func fontInstalled(stems []string, font string) bool {
	name := normalizeFontName(font)
	if name == "" {
		return false
	}

	prefixes := append([]string{name}, fontAliases[name]...)
	for _, stem := range stems {
		for _, prefix := range prefixes {
			if stem == prefix || (strings.HasPrefix(stem, prefix) && isStyleSuffix(stem[len(prefix):])) {
				return true
			}
		}
	}

	return false
}

// isStyleSuffix accepts the style markers that follow a family name in font
// file names, e.g. "bd", "bold", "italic", "mt", "regular".
func isStyleSuffix(s string) bool {
	switch s {
	case "b", "bd", "bi", "i", "z", "bold", "italic", "bolditalic", "mt", "psmt", "regular":
		return true
	}

	return strings.HasPrefix(s, "bold") || strings.HasPrefix(s, "italic") || strings.HasPrefix(s, "mt")
}

// normalizeFontName lowercases name and drops spaces, underscores and hyphens.
func normalizeFontName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}

		return r
	}, strings.ToLower(name))
}
