package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"github.com/google/uuid"
)

// individual accounts in the public universe have 0x011 in the top twelve
// bits of their Steam64 ID.
const steamIndividual = 0x011

// NewSteam64ID returns the parser of Steam64 IDs of individual accounts.
// Zero means nobody.
func NewSteam64ID() *Scalar[uint64] {
	s := Uint[uint64]("Steam64ID", 64)
	s.check = func(a *schema.ParseArgs, n *ir.Node, v uint64) bool {
		if v != 0 && v>>52 != steamIndividual {
			a.Report(diag.InvalidValue, n, "%d is not the Steam64 ID of an individual account", v)
			return false
		}
		return true
	}
	return s
}

// MaxSkillLevel is the highest level of any skill.
const MaxSkillLevel = 7

func skillLevelFactory(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
	hi, err := sp.Int("Maximum", MaxSkillLevel)
	if err != nil {
		return nil, err
	}
	s := Uint[uint8]("SkillLevel", 8)
	s.check = func(a *schema.ParseArgs, n *ir.Node, v uint8) bool {
		if int(v) > hi {
			a.Report(diag.InvalidValue, n, "skill level %d is above the maximum %d", v, hi)
			return false
		}
		return true
	}
	return s, nil
}

// AssetRef points at another asset by GUID or legacy ID, or at the asset
// declaring it.
type AssetRef struct {
	GUID uuid.UUID
	ID   uint16
	Self bool
}

func (r AssetRef) String() string {
	switch {
	case r.Self:
		return "this"
	case r.GUID != uuid.Nil:
		return strings.ReplaceAll(r.GUID.String(), "-", "")
	}
	return strconv.Itoa(int(r.ID))
}

var errAssetRef = errors.New("expected a GUID, a numeric ID or this")

func NewAssetReference() *Scalar[AssetRef] {
	return NewScalar("AssetReference", func(s string) (AssetRef, error) {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "this") {
			return AssetRef{Self: true}, nil
		}
		if id, err := strconv.ParseUint(s, 10, 16); err == nil {
			return AssetRef{ID: uint16(id)}, nil
		}
		if len(s) >= 32 {
			if u, err := uuid.Parse(s); err == nil {
				return AssetRef{GUID: u}, nil
			}
		}
		return AssetRef{}, errAssetRef
	})
}

// NewLocalizationKey returns the parser of keys into localization files:
// letters, digits, '_', '.' and '-'.
func NewLocalizationKey() *Scalar[string] {
	return NewScalar("LocalizationKey", func(s string) (string, error) {
		if s == "" {
			return "", errors.New("empty key")
		}
		for i := 0; i < len(s); i++ {
			c := s[i]
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' || c == '-') {
				return "", fmt.Errorf("%q can not appear in a key", c)
			}
		}
		return s, nil
	})
}

type Color32 struct {
	R, G, B, A uint8
}

func (c Color32) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var errColor = errors.New("expected #RRGGBB or #RRGGBBAA")

// NewColor32 returns the parser of hexadecimal colors. Alpha defaults to
// opaque.
func NewColor32() *Scalar[Color32] {
	return NewScalar("Color32", func(s string) (Color32, error) {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
			return Color32{}, errColor
		}
		b, err := hex.DecodeString(s[1:])
		if err != nil {
			return Color32{}, errColor
		}
		c := Color32{R: b[0], G: b[1], B: b[2], A: 0xff}
		if len(b) == 4 {
			c.A = b[3]
		}
		return c, nil
	})
}

// NewID returns the parser of legacy numeric asset IDs.
func NewID() *Scalar[uint16] {
	return Uint[uint16]("Id", 16)
}
