package render

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func mustGet(t *testing.T, ctx *Context, key string) Value {
	t.Helper()
	v, ok := ctx.Get(key)
	if !ok {
		t.Fatalf("key %q missing from context", key)
	}
	return v
}

func TestProcessInjectsCurrentDates(t *testing.T) {
	ctx := Process(map[string]any{}, testNow)

	if got := mustGet(t, ctx, "data_atual").Text(); got != "05/03/2024" {
		t.Errorf("data_atual = %q", got)
	}
	if got := mustGet(t, ctx, "data_hora_atual").Text(); got != "05/03/2024 às 14:30" {
		t.Errorf("data_hora_atual = %q", got)
	}
}

func TestProcessCurrencyDerivation(t *testing.T) {
	ctx := Process(map[string]any{
		"valor_total": float64(5000),
		"preco_unit":  float64(19.9),
		"valor_texto": "cinco mil", // non-numeric: no derived key
		"quantidade":  float64(3),  // name does not match: no derived key
	}, testNow)

	if got := mustGet(t, ctx, "valor_total_formatado").Text(); got != "R$ 5.000,00" {
		t.Errorf("valor_total_formatado = %q", got)
	}
	if got := mustGet(t, ctx, "preco_unit_formatado").Text(); got != "R$ 19,90" {
		t.Errorf("preco_unit_formatado = %q", got)
	}
	if _, ok := ctx.Get("valor_texto_formatado"); ok {
		t.Error("non-numeric valor key gained a formatted sibling")
	}
	if _, ok := ctx.Get("quantidade_formatado"); ok {
		t.Error("unrelated key gained a formatted sibling")
	}
}

func TestProcessCPFAndCNPJ(t *testing.T) {
	ctx := Process(map[string]any{
		"cpf":           "12345678900",
		"cpf_socio":     "123", // too short: empty formatted value
		"cnpj_empresa":  "12345678000195",
	}, testNow)

	if got := mustGet(t, ctx, "cpf_formatado").Text(); got != "123.456.789-00" {
		t.Errorf("cpf_formatado = %q", got)
	}
	if got := mustGet(t, ctx, "cpf_socio_formatado").Text(); got != "" {
		t.Errorf("cpf_socio_formatado = %q, want empty", got)
	}
	if got := mustGet(t, ctx, "cnpj_empresa_formatado").Text(); got != "12.345.678/0001-95" {
		t.Errorf("cnpj_empresa_formatado = %q", got)
	}
}

func TestProcessDateDerivation(t *testing.T) {
	ctx := Process(map[string]any{
		"data_assinatura": "2024-03-05",
		"data_invalida":   "not a date",
	}, testNow)

	if got := mustGet(t, ctx, "data_assinatura_formatada").Text(); got != "05/03/2024" {
		t.Errorf("data_assinatura_formatada = %q", got)
	}
	if got := mustGet(t, ctx, "data_assinatura_extenso").Text(); got != "5 de março de 2024" {
		t.Errorf("data_assinatura_extenso = %q", got)
	}
	if _, ok := ctx.Get("data_invalida_formatada"); ok {
		t.Error("unparseable date gained derived fields")
	}
	if _, ok := ctx.Get("data_invalida_extenso"); ok {
		t.Error("unparseable date gained derived fields")
	}
}

func TestProcessStringListNormalization(t *testing.T) {
	ctx := Process(map[string]any{
		"itens":    []any{"caneta", "papel"},
		"pessoas":  []any{map[string]any{"nome": "Ana"}},
		"numeros":  []any{float64(1), float64(2)},
	}, testNow)

	itens := mustGet(t, ctx, "itens").Elems()
	if len(itens) != 2 {
		t.Fatalf("itens has %d elements", len(itens))
	}
	for i, want := range []string{"caneta", "papel"} {
		f, ok := itens[i].Field("valor")
		if !ok || f.Text() != want {
			t.Errorf("itens[%d].valor = %v, want %q", i, f.Text(), want)
		}
	}

	// Record lists pass through unchanged.
	pessoas := mustGet(t, ctx, "pessoas").Elems()
	if _, ok := pessoas[0].Field("nome"); !ok {
		t.Error("record list was rewritten")
	}

	// Non-string scalar lists pass through unchanged.
	numeros := mustGet(t, ctx, "numeros").Elems()
	if numeros[0].Kind() != KindNumber {
		t.Error("number list was rewritten")
	}
}

func TestProcessPresenceFlags(t *testing.T) {
	ctx := Process(map[string]any{
		"nome":   "Ana",
		"vazio":  "",
		"zero":   float64(0),
		"nulo":   nil,
		"falso":  false,
		"lista":  []any{"x"},
		"numero": float64(7),
	}, testNow)

	tem := mustGet(t, ctx, "tem")
	want := map[string]bool{
		"nome": true, "vazio": false, "zero": false, "nulo": false,
		"falso": false, "lista": true, "numero": true,
	}
	for k, expected := range want {
		f, ok := tem.Field(k)
		if !ok {
			t.Errorf("tem.%s missing", k)
			continue
		}
		if f.Truthy() != expected {
			t.Errorf("tem.%s = %v, want %v", k, f.Truthy(), expected)
		}
	}

	// Derived keys must not appear in the presence record.
	if _, ok := tem.Field("data_atual"); ok {
		t.Error("injected key leaked into tem record")
	}

	// Dotted resolution reaches into the record.
	v, ok := ctx.Resolve("tem.nome")
	if !ok || !v.Truthy() {
		t.Error("Resolve(tem.nome) failed")
	}
}

func TestProcessDoesNotMutateInputScalars(t *testing.T) {
	raw := map[string]any{"valor": float64(100), "cpf": "12345678900"}
	ctx := Process(raw, testNow)

	if got := mustGet(t, ctx, "valor").Text(); got != "100" {
		t.Errorf("original valor changed: %q", got)
	}
	if got := mustGet(t, ctx, "cpf").Text(); got != "12345678900" {
		t.Errorf("original cpf changed: %q", got)
	}
	if len(raw) != 2 {
		t.Errorf("input map mutated: %d keys", len(raw))
	}
}
