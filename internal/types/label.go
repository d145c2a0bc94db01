package types

import (
	"strconv"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(in *Interner, id TypeID) string {
	return labelDepth(in, id, 0)
}

func labelDepth(in *Interner, id TypeID, depth int) string {
	if depth > 8 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindInt:
		return "{integer}"
	case KindStruct:
		info, _ := in.StructInfo(id)
		return info.Name
	case KindEnum:
		info, _ := in.EnumInfo(id)
		return info.Name
	case KindTrait:
		info, _ := in.TraitInfo(id)
		return "dyn " + info.Name
	case KindReference:
		if tt.RefMut {
			return "&mut " + labelDepth(in, tt.Elem, depth+1)
		}
		return "&" + labelDepth(in, tt.Elem, depth+1)
	case KindArray:
		return "[" + labelDepth(in, tt.Elem, depth+1) + "; " + strconv.FormatUint(tt.Count, 10) + "]"
	case KindAmbiguousBlock:
		return labelDepth(in, tt.Elem, depth+1)
	case KindStructConstructor, KindEnumConstructor:
		return "type " + labelDepth(in, tt.Elem, depth+1)
	case KindFn:
		info, _ := in.FnInfo(id)
		var sb strings.Builder
		sb.WriteString("fn(")
		if info.IsMethod {
			sb.WriteString("self")
			if len(info.Params) > 0 {
				sb.WriteString(", ")
			}
		}
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(labelDepth(in, p, depth+1))
		}
		sb.WriteString(") -> ")
		sb.WriteString(labelDepth(in, info.Result, depth+1))
		return sb.String()
	}
	return tt.Kind.String()
}
