package catalog

import (
	"reflect"
	"testing"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

func awesomeServer(name string, url string) *domain.Server {
	s := domain.NewServer(name, url)
	s.Category = "Search"
	s.Languages = []string{"Python"}
	s.IsOpenSource = true
	return s
}

func TestMergeDeduplicatesByURL(t *testing.T) {
	a := awesomeServer("Thing", "https://github.com/o/thing")
	b := domain.NewServer("thing server", "https://GitHub.com/o/Thing")
	b.Description = "from the official list"

	c := Merge(
		Source{Tag: "awesome", ExplicitOfficial: true, Servers: []*domain.Server{a}},
		Source{Tag: "official", Kind: domain.KindCommunity, Servers: []*domain.Server{b}},
	)

	if expected, actual := 1, c.Len(); actual != expected {
		t.Fatalf("Expected catalog len=%v but actual=%v", expected, actual)
	}

	merged, ok := c.Get("https://github.com/o/thing")
	if !ok {
		t.Fatal("Expected merged server under lower-cased URL key")
	}
	if expected, actual := "Thing", merged.Name; actual != expected {
		t.Errorf("Expected first-writer name=%v but actual=%v", expected, actual)
	}
	if expected, actual := "from the official list", merged.Description; actual != expected {
		t.Errorf("Expected filled description=%v but actual=%v", expected, actual)
	}
	if expected, actual := "awesome", merged.Source; actual != expected {
		t.Errorf("Expected source=%v but actual=%v", expected, actual)
	}
	if expected, actual := domain.KindCommunity, merged.Kind; actual != expected {
		t.Errorf("Expected kind=%v but actual=%v", expected, actual)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := awesomeServer("A", "https://github.com/o/a")
	c := Merge(Source{Tag: "awesome", ExplicitOfficial: true, Servers: []*domain.Server{a}})

	merged, _ := c.Get(a.Key())
	merged.Languages = append(merged.Languages, "Go")
	merged.Name = "changed"

	if expected, actual := []string{"Python"}, a.Languages; !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected input languages untouched=%+v but actual=%+v", expected, actual)
	}
	if expected, actual := "A", a.Name; actual != expected {
		t.Errorf("Expected input name untouched=%v but actual=%v", expected, actual)
	}
	if a.Source != "" {
		t.Errorf("Expected input provenance untouched but actual=%v", a.Source)
	}
}

func TestMergeOfficialDefaultForAuthoritativeTiers(t *testing.T) {
	ref := domain.NewServer("Ref", "https://github.com/mcp/ref")
	integration := domain.NewServer("Integ", "https://github.com/acme/mcp")
	community := domain.NewServer("Comm", "https://github.com/someone/thing")

	c := Merge(
		Source{Tag: "official", Kind: domain.KindReference, Servers: []*domain.Server{ref}},
		Source{Tag: "official", Kind: domain.KindIntegration, Servers: []*domain.Server{integration}},
		Source{Tag: "official", Kind: domain.KindCommunity, Servers: []*domain.Server{community}},
	)

	for _, testCase := range []struct {
		key      string
		official bool
	}{
		{"https://github.com/mcp/ref", true},
		{"https://github.com/acme/mcp", true},
		{"https://github.com/someone/thing", false},
	} {
		s, ok := c.Get(testCase.key)
		if !ok {
			t.Fatalf("Expected catalog entry for %v", testCase.key)
		}
		if expected, actual := testCase.official, s.IsOfficial; actual != expected {
			t.Errorf("key=%v Expected is_official=%v but actual=%v", testCase.key, expected, actual)
		}
	}
}

func TestMergeExplicitOfficialWinsOverDefault(t *testing.T) {
	// The flat list explicitly said "not official"; appearing in the
	// reference tier must not flip the record via the default rule.
	flat := awesomeServer("X", "https://github.com/o/x")
	ref := domain.NewServer("X", "https://github.com/o/x")

	c := Merge(
		Source{Tag: "awesome", ExplicitOfficial: true, Servers: []*domain.Server{flat}},
		Source{Tag: "official", Kind: domain.KindReference, Servers: []*domain.Server{ref}},
	)

	s, _ := c.Get("https://github.com/o/x")
	if s.IsOfficial {
		t.Error("Expected explicitly unofficial server to stay unofficial")
	}
}

func TestMergeIdempotent(t *testing.T) {
	build := func() *domain.Catalog {
		a := awesomeServer("A", "https://github.com/o/a")
		a.SetStarCount(10)
		b := domain.NewServer("B", "https://github.com/o/b")
		return Merge(
			Source{Tag: "awesome", ExplicitOfficial: true, Servers: []*domain.Server{a}},
			Source{Tag: "official", Kind: domain.KindCommunity, Servers: []*domain.Server{b}},
		)
	}

	once := build()
	// Re-merging a catalog's own output must change nothing.
	again := Merge(Source{Tag: "merged", Servers: once.Servers()})
	reMerged := Merge(Source{Tag: "merged", Servers: again.Servers()})

	if expected, actual := again.Len(), reMerged.Len(); actual != expected {
		t.Fatalf("Expected len=%v but actual=%v", expected, actual)
	}
	if expected, actual := again.Servers(), reMerged.Servers(); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected idempotent merge, first=%+v second=%+v", expected, actual)
	}
}

func TestMergeMonotoneFieldsCommutative(t *testing.T) {
	build := func(flip bool) *domain.Catalog {
		a := domain.NewServer("A", "https://github.com/o/a")
		a.IsOfficial = true
		b := domain.NewServer("A alt", "https://github.com/o/a")
		b.IsOpenSource = true
		b.SetStarCount(5)

		s1 := Source{Tag: "one", ExplicitOfficial: true, Servers: []*domain.Server{a}}
		s2 := Source{Tag: "two", Servers: []*domain.Server{b}}
		if flip {
			return Merge(s2, s1)
		}
		return Merge(s1, s2)
	}

	forward := build(false)
	backward := build(true)

	f, _ := forward.Get("https://github.com/o/a")
	r, _ := backward.Get("https://github.com/o/a")

	if f.IsOfficial != r.IsOfficial {
		t.Errorf("Expected is_official independent of order, forward=%v backward=%v", f.IsOfficial, r.IsOfficial)
	}
	if f.IsOpenSource != r.IsOpenSource {
		t.Errorf("Expected is_open_source independent of order, forward=%v backward=%v", f.IsOpenSource, r.IsOpenSource)
	}
	if (f.StarCount == nil) != (r.StarCount == nil) {
		t.Error("Expected star count presence independent of order")
	}
}
