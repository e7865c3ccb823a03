package render

import (
	"sort"
	"strings"
	"time"
)

// Process builds the rendering context from a caller-supplied data
// document. It is pure: no failure path beyond malformed-date detection,
// which is non-fatal and simply skips the derived fields.
//
// Transformations, in order, over a shallow copy of the input:
//  1. inject data_atual / data_hora_atual for the given clock time,
//  2. normalize string lists into one-field {valor: s} records,
//  3. derive <key>_formatado currency fields for valor/preco keys,
//  4. derive <key>_formatado for cpf keys,
//  5. derive <key>_formatado for cnpj keys,
//  6. derive <key>_formatada and <key>_extenso for parseable data keys,
//  7. add the tem.<key> presence record over the original keys.
//
// Steps 3-6 only add new keys; step 2 is the single intentional in-place
// mutation (the raw string array is not needed downstream).
func Process(raw map[string]any, now time.Time) *Context {
	// Input maps carry no order; sort for a deterministic context.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx := NewContext()
	for _, k := range keys {
		ctx.Set(k, normalizeStringList(FromJSON(raw[k])))
	}

	ctx.Set("data_atual", String(FormatDate(now)))
	ctx.Set("data_hora_atual", String(FormatDateTime(now)))

	for _, k := range keys {
		v, _ := ctx.Get(k)
		lower := strings.ToLower(k)

		if strings.Contains(lower, "valor") || strings.Contains(lower, "preco") {
			if n, ok := v.Num(); ok {
				ctx.Set(k+"_formatado", String(FormatCurrency(n)))
			}
		}

		if strings.Contains(lower, "cpf") {
			ctx.Set(k+"_formatado", String(FormatCPF(v.Text())))
		}

		if strings.Contains(lower, "cnpj") {
			ctx.Set(k+"_formatado", String(FormatCNPJ(v.Text())))
		}

		if strings.Contains(lower, "data") {
			if t, ok := ParseDate(v.Text()); ok {
				ctx.Set(k+"_formatada", String(FormatDate(t)))
				ctx.Set(k+"_extenso", String(FormatDateExtenso(t)))
			}
		}
	}

	tem := make(map[string]Value, len(keys))
	for _, k := range keys {
		v, _ := ctx.Get(k)
		tem[k] = Bool(v.Truthy())
	}
	ctx.Set("tem", Record(tem))

	return ctx
}

// normalizeStringList rewrites a list of plain strings into a list of
// one-field records so a template loop can address a stable field name.
// Lists already holding records pass through unchanged.
func normalizeStringList(v Value) Value {
	elems := v.Elems()
	if len(elems) == 0 {
		return v
	}
	for _, el := range elems {
		if el.Kind() != KindString {
			return v
		}
	}
	out := make([]Value, len(elems))
	for i, el := range elems {
		out[i] = Record(map[string]Value{"valor": el})
	}
	return List(out)
}
