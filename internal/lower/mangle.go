package lower

import (
	"strconv"
	"strings"

	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
)

// Mangle produces "__<module>__<fn>[__<v1>_<v2>_...]" with dots in the
// module name replaced by underscores (spec.md §4.A). The values are those
// of the bindings named in freeKeys, in the order they appear in bindings,
// so the result does not depend on the order of freeKeys. It fails with
// InvalidArgument if freeKeys is not fully covered by bindings.
func Mangle(fnName string, freeKeys []string, moduleName string, bindings hirtypes.Bindings) (string, error) {
	free := make(map[string]bool, len(freeKeys))
	for _, key := range freeKeys {
		if _, ok := bindings.Lookup(key); !ok {
			return "", diagx.InvalidArgumentf(noSpan, "unbound parametric %q mangling %s.%s", key, moduleName, fnName)
		}
		free[key] = true
	}

	var b strings.Builder
	b.WriteString("__")
	b.WriteString(strings.ReplaceAll(moduleName, ".", "_"))
	b.WriteString("__")
	b.WriteString(fnName)
	first := true
	for _, kv := range bindings {
		if !free[kv.Name] {
			continue
		}
		delete(free, kv.Name)
		if first {
			b.WriteString("__")
			first = false
		} else {
			b.WriteString("_")
		}
		b.WriteString(strconv.FormatInt(kv.Value, 10))
	}
	return b.String(), nil
}
