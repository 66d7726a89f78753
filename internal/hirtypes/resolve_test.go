package hirtypes

import (
	"testing"

	"hdlower/internal/ast"
)

func TestResolveDim(t *testing.T) {
	bindings := Bindings{{Name: "N", Value: 8}, {Name: "M", Value: 3}}

	tests := []struct {
		name    string
		dim     DimExpr
		want    uint32
		wantErr bool
	}{
		{name: "const", dim: ConstDim(4), want: 4},
		{name: "bound param", dim: ParamDim("N"), want: 8},
		{name: "add", dim: AddDim(ParamDim("N"), ConstDim(1)), want: 9},
		{name: "sub", dim: SubDim(ParamDim("N"), ParamDim("M")), want: 5},
		{name: "mul", dim: MulDim(ParamDim("M"), ConstDim(2)), want: 6},
		{name: "unbound param", dim: ParamDim("K"), wantErr: true},
		{name: "sub underflow", dim: SubDim(ParamDim("M"), ParamDim("N")), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveDim(tc.dim, bindings)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestResolveType(t *testing.T) {
	ti := NewTypeInfo()
	node := ast.ExprID(1).Node()
	ti.Types[node] = SurfaceArrayOf(SurfaceBitsOf(ParamDim("N"), false), ConstDim(4))

	bindings := Bindings{{Name: "N", Value: 8}}
	ct, err := ti.ResolveType(node, bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.Kind != KindArray || ct.Size != 4 {
		t.Fatalf("got %+v, want array of size 4", ct)
	}
	if ct.Elem.Kind != KindBits || ct.Elem.Width != 8 {
		t.Fatalf("got elem %+v, want bits[8]", ct.Elem)
	}
}

func TestResolveTypeMissingEntry(t *testing.T) {
	ti := NewTypeInfo()
	_, err := ti.ResolveType(ast.ExprID(99).Node(), nil)
	if err == nil {
		t.Fatal("expected error for missing type entry")
	}
}

func TestEnumDefByNameThroughTypedef(t *testing.T) {
	ti := NewTypeInfo()
	enum := &ast.EnumDef{Name: "Op"}
	ti.Enums["Op"] = enum
	ti.TypeDefs["OpAlias"] = &ast.TypeDef{Name: "OpAlias", Target: ast.TypeRefID(1)}
	ti.Annotations[ast.TypeRefID(1)] = SurfaceEnumOf("Op", ConstDim(4), false)

	got := ti.EnumDefByName("OpAlias")
	if got != enum {
		t.Fatalf("got %v, want %v", got, enum)
	}
}

func TestEnumDefByNameMissing(t *testing.T) {
	ti := NewTypeInfo()
	if got := ti.EnumDefByName("Nope"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
