package nullability

import (
	"ktmeta/internal/header"
	"ktmeta/internal/jvm"
	"ktmeta/internal/schema"
)

// Aliases so callers outside this module can build queries and read results.
type (
	Method   = jvm.Method
	Class    = jvm.Class
	Function = schema.Function
	Header   = header.Header
	Version  = header.Version
	Kind     = header.Kind
)

const KindClass = header.KindClass

// ArrayOf returns the array class whose elements are c.
func ArrayOf(c Class) Class { return jvm.ArrayOf(c) }
