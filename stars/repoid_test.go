package stars

import (
	"testing"
)

func TestParseRepoID(t *testing.T) {
	testCases := []struct {
		url   string
		owner string
		name  string
		ok    bool
	}{
		{
			url:   "https://github.com/a/b",
			owner: "a",
			name:  "b",
			ok:    true,
		},
		{
			url:   "https://github.com/a/b/tree/main/sub",
			owner: "a",
			name:  "b",
			ok:    true,
		},
		{
			url:   "https://github.com/a/b.git",
			owner: "a",
			name:  "b",
			ok:    true,
		},
		{
			url:   "https://github.com/a/b#readme",
			owner: "a",
			name:  "b",
			ok:    true,
		},
		{
			url: "https://gitlab.com/a/b",
			ok:  false,
		},
		{
			url: "https://example.com",
			ok:  false,
		},
		{
			url: "",
			ok:  false,
		},
	}
	for i, testCase := range testCases {
		id, ok := ParseRepoID(testCase.url)
		if expected, actual := testCase.ok, ok; actual != expected {
			t.Errorf("[i=%v] url=%q Expected ok=%v but actual=%v", i, testCase.url, expected, actual)
			continue
		}
		if !ok {
			continue
		}
		if expected, actual := testCase.owner, id.Owner; actual != expected {
			t.Errorf("[i=%v] Expected owner=%v but actual=%v", i, expected, actual)
		}
		if expected, actual := testCase.name, id.Name; actual != expected {
			t.Errorf("[i=%v] Expected name=%v but actual=%v", i, expected, actual)
		}
	}
}

func TestRepoIDKey(t *testing.T) {
	id := RepoID{Owner: "ModelContextProtocol", Name: "Servers"}
	if expected, actual := "modelcontextprotocol/servers", id.Key(); actual != expected {
		t.Errorf("Expected key=%v but actual=%v", expected, actual)
	}
}
