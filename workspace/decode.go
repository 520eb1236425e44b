package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode returns d as UTF-8. A UTF-8 byte order mark is stripped and text
// starting with a UTF-16 byte order mark is transcoded. Anything else is
// returned unchanged.
func Decode(d []byte) ([]byte, error) {
	if !hasBOM(d) {
		return d, nil
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	res, _, err := transform.Bytes(dec, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return res, nil
}

func hasBOM(d []byte) bool {
	switch {
	case len(d) >= 3 && d[0] == 0xEF && d[1] == 0xBB && d[2] == 0xBF:
		return true
	case len(d) >= 2 && d[0] == 0xFF && d[1] == 0xFE:
		return true
	case len(d) >= 2 && d[0] == 0xFE && d[1] == 0xFF:
		return true
	}
	return false
}

var languages = map[string]bool{
	"english":    true,
	"spanish":    true,
	"latam":      true,
	"french":     true,
	"german":     true,
	"italian":    true,
	"russian":    true,
	"polish":     true,
	"portuguese": true,
	"brazilian":  true,
	"dutch":      true,
	"czech":      true,
	"swedish":    true,
	"norwegian":  true,
	"danish":     true,
	"finnish":    true,
	"hungarian":  true,
	"romanian":   true,
	"turkish":    true,
	"ukrainian":  true,
	"bulgarian":  true,
	"greek":      true,
	"japanese":   true,
	"koreana":    true,
	"schinese":   true,
	"tchinese":   true,
	"thai":       true,
	"vietnamese": true,
	"indonesian": true,
	"arabic":     true,
}

// KindFromPath classifies a file by name. Language files such as
// English.dat hold localization, other .dat and .asset files hold assets.
func KindFromPath(path string) ir.FileKind {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".dat":
		if languages[strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))] {
			return ir.KindLocalization
		}
		return ir.KindAsset
	case ".asset":
		return ir.KindAsset
	}
	return ir.KindOther
}
