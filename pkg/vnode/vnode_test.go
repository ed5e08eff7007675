package vnode

import (
	"testing"

	"github.com/go-drift/vdom/pkg/async"
)

func TestKeysEqualIsStrict(t *testing.T) {
	falsy := []any{0, false, "", NullKey, UndefinedKey, nil}
	for i, a := range falsy {
		for j, b := range falsy {
			if got := KeysEqual(a, b); got != (i == j) {
				t.Errorf("KeysEqual(%v, %v) = %v", a, b, got)
			}
		}
	}
	if KeysEqual(1, int64(1)) {
		t.Error("keys of different types must not match")
	}
	if KeysEqual([]int{1}, []int{1}) {
		t.Error("non-comparable keys must not match")
	}
	if !KeysEqual("a", "a") {
		t.Error("equal string keys must match")
	}
}

func TestKindOf(t *testing.T) {
	var nilElement *Element
	tests := []struct {
		name string
		node Node
		want Kind
	}{
		{"nil", nil, KindEmpty},
		{"nil element", nilElement, KindEmpty},
		{"adopted without node", &Adopted{}, KindEmpty},
		{"component without ref", &Component{}, KindEmpty},
		{"text", T("x"), KindText},
		{"element", V("div", nil), KindElement},
		{"sequence", S(T("a")), KindSequence},
		{"if false", If(false, T("a")), KindEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.node); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildersExtractKey(t *testing.T) {
	e := V("div", Props{"key": 0})
	if !KeysEqual(e.Key, 0) {
		t.Errorf("element key = %v", e.Key)
	}
	c := W(Func("f", nil), Props{"key": "k"})
	if !KeysEqual(KeyOf(c), "k") {
		t.Errorf("component key = %v", KeyOf(c))
	}
	if KeyOf(V("div", nil)) != nil {
		t.Error("unkeyed element should have nil key")
	}
	if k := V("div", nil).Keyed(false).Key; !KeysEqual(k, false) {
		t.Errorf("Keyed() key = %v", k)
	}
}

func TestValueEqual(t *testing.T) {
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different types", 1, "1", false},
		{"nil both", nil, nil, true},
		{"nil one", nil, 0, false},
		{"func", fn, fn, false},
		{"slices by content", []string{"a"}, []string{"a"}, true},
		{"maps by content", map[string]string{"a": "b"}, map[string]string{"a": "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValueEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropsAndChildrenEqual(t *testing.T) {
	if !PropsEqual(Props{"a": 1}, Props{"a": 1}) {
		t.Error("equal props reported different")
	}
	if PropsEqual(Props{"a": 1}, Props{"b": 1}) {
		t.Error("different keys reported equal")
	}
	if !ChildrenEqual(nil, []Node{}) {
		t.Error("empty child lists should be equal")
	}
	child := V("span", nil)
	if !ChildrenEqual([]Node{child, T("x")}, []Node{child, T("x")}) {
		t.Error("identical children reported different")
	}
	if ChildrenEqual([]Node{V("span", nil)}, []Node{V("span", nil)}) {
		t.Error("distinct descriptions should compare by identity")
	}
}

func TestMergeStaticWins(t *testing.T) {
	got := Merge(Props{"a": 1, "b": 1}, Props{"b": 2})
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("Merge() = %v", got)
	}
}

type resolverFunc func(Label) Resolution

func (f resolverFunc) Resolve(l Label) Resolution { return f(l) }

func TestResolveRef(t *testing.T) {
	def := Func("def", func(Context) Node { return T("x") })

	if d, ok := ResolveRef(def, nil).Definition(); !ok || d != def {
		t.Error("definition ref should resolve to itself")
	}
	if _, ok := ResolveRef(Label("a"), nil).Definition(); ok {
		t.Error("label without resolver should not resolve")
	}
	r := ResolveRef(Label("a"), resolverFunc(func(l Label) Resolution {
		if l == "a" {
			return Resolved(def)
		}
		return Resolution{}
	}))
	if d, _ := r.Definition(); d != def {
		t.Error("label should resolve through resolver")
	}
}

func TestLazyResolvesOnce(t *testing.T) {
	def := Func("lazy", nil)
	loads := 0
	f := async.NewFuture[*Definition]()
	lazy := NewLazy("lazy", func() *async.Future[*Definition] {
		loads++
		return f
	})

	r := ResolveRef(lazy, nil)
	if r.Future() == nil {
		t.Fatal("expected pending resolution")
	}
	ResolveRef(lazy, nil)
	f.Resolve(def)

	r = ResolveRef(lazy, nil)
	if d, ok := r.Definition(); !ok || d != def {
		t.Fatal("expected resolved definition")
	}
	if r.Future() != nil {
		t.Error("resolved resolution should have no future")
	}
	if loads != 1 {
		t.Errorf("Load called %d times", loads)
	}
}

func TestDefinitionNew(t *testing.T) {
	var nilDef *Definition
	if nilDef.New().Render(nil) != nil {
		t.Error("nil definition should render nothing")
	}
	def := Func("hello", func(ctx Context) Node { return T("hello") })
	if got := def.New().Render(nil); got != T("hello") {
		t.Errorf("Render() = %v", got)
	}
	if def.String() != "hello" {
		t.Errorf("String() = %q", def.String())
	}
}
