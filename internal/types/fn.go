package types

import (
	"slices"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID // excluding the receiver
	Result   TypeID
	IsMethod bool
	Receiver TypeID // NoTypeID unless IsMethod
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFn || tt.Mutable {
			continue
		}
		have := in.fns[tt.Payload]
		if have.Result == info.Result && have.IsMethod == info.IsMethod &&
			have.Receiver == info.Receiver && slices.Equal(have.Params, info.Params) {
			return id
		}
	}
	info.Params = slices.Clone(info.Params)
	in.fns = append(in.fns, info)
	return in.internRaw(Type{Kind: KindFn, Payload: slotOf(len(in.fns))})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}
