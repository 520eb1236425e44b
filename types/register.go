package types

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// fresh wraps a constructor taking no arguments.
func fresh[T schema.Type](mk func() T) schema.Factory {
	return func(schema.Spec, *schema.Builder) (schema.Type, error) {
		return mk(), nil
	}
}

func stringFactory(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
	return stringCheck(NewString(), sp)
}

func init() {
	for id, f := range map[string]schema.Factory{
		"Bool":    fresh(NewBool),
		"Boolean": fresh(NewBool),

		"Int8":    intFactory[int8](8)("Int8"),
		"UInt8":   uintFactory[uint8](8)("UInt8"),
		"Byte":    uintFactory[uint8](8)("Byte"),
		"Int16":   intFactory[int16](16)("Int16"),
		"UInt16":  uintFactory[uint16](16)("UInt16"),
		"Int32":   intFactory[int32](32)("Int32"),
		"UInt32":  uintFactory[uint32](32)("UInt32"),
		"Int64":   intFactory[int64](64)("Int64"),
		"UInt64":  uintFactory[uint64](64)("UInt64"),
		"Float32": floatFactory[float32](32)("Float32"),
		"Single":  floatFactory[float32](32)("Single"),
		"Float64": floatFactory[float64](64)("Float64"),
		"Double":  floatFactory[float64](64)("Double"),

		"String":   stringFactory,
		"Guid":     fresh(NewGUID),
		"Enum":     enumFactory("Enum", ""),
		"DateTime": fresh(NewDateTime),

		"Steam64ID":       fresh(NewSteam64ID),
		"SkillLevel":      skillLevelFactory,
		"Skill":           enumFactory("Skill", "Skills"),
		"AssetReference":  fresh(NewAssetReference),
		"LocalizationKey": fresh(NewLocalizationKey),
		"Color32":         fresh(NewColor32),
		"Id":              fresh(NewID),

		"List":       listFactory,
		"Dictionary": dictionaryFactory,
		"CommaList":  commaListFactory,
	} {
		schema.MustRegisterFactory(id, f)
	}
	schema.MustRegisterFactory(schema.ObjectFactory, objectFactory)
}
