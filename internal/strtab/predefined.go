package strtab

// predefined holds the standard-library binary names a record may reference
// by position instead of carrying a literal. The order is part of the
// metadata format and must never change.
var predefined = [...]string{
	"kotlin/Any",
	"kotlin/Nothing",
	"kotlin/Unit",
	"kotlin/Throwable",
	"kotlin/Number",

	"kotlin/Byte", "kotlin/Double", "kotlin/Float", "kotlin/Int",
	"kotlin/Long", "kotlin/Short", "kotlin/Boolean", "kotlin/Char",

	"kotlin/CharSequence",
	"kotlin/String",
	"kotlin/Comparable",
	"kotlin/Enum",

	"kotlin/Array",
	"kotlin/ByteArray", "kotlin/DoubleArray", "kotlin/FloatArray", "kotlin/IntArray",
	"kotlin/LongArray", "kotlin/ShortArray", "kotlin/BooleanArray", "kotlin/CharArray",

	"kotlin/Cloneable",
	"kotlin/Annotation",

	"kotlin/collections/Iterable", "kotlin/collections/MutableIterable",
	"kotlin/collections/Collection", "kotlin/collections/MutableCollection",
	"kotlin/collections/List", "kotlin/collections/MutableList",
	"kotlin/collections/Set", "kotlin/collections/MutableSet",
	"kotlin/collections/Map", "kotlin/collections/MutableMap",
	"kotlin/collections/Map.Entry", "kotlin/collections/MutableMap.MutableEntry",

	"kotlin/collections/Iterator", "kotlin/collections/MutableIterator",
	"kotlin/collections/ListIterator", "kotlin/collections/MutableListIterator",
}

// NumPredefined is the size of the predefined constant pool.
const NumPredefined = len(predefined)

// Predefined returns the predefined name at index i.
func Predefined(i int) (string, bool) {
	if i < 0 || i >= len(predefined) {
		return "", false
	}
	return predefined[i], true
}

// UnitName is the binary name of the unit type.
const UnitName = "kotlin/Unit"
