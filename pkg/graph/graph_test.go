package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/studytree/pkg/dag"
)

func studyDAG() *dag.DAG {
	g := dag.New(dag.Metadata{"name": "Scandinavian", "Event": "Study"})
	g.AddNode(dag.Node{ID: "n1", Kind: dag.NodeKindRoot, Title: "intro"})
	g.AddNode(dag.Node{ID: "n2", Label: "1. e4 d5", Weight: 2, Row: 1, Meta: dag.Metadata{"first_ply": 1}})
	g.AddNode(dag.Node{ID: "n3", Label: "2. exd5 Qxd5", Weight: 2, Row: 2})
	g.AddNode(dag.Node{ID: "n4", Label: "2. e5?!", Weight: 1, Row: 2, Color: "#e58f2a"})
	g.AddEdge(dag.Edge{From: "n1", To: "n2", Label: "1. e4"})
	g.AddEdge(dag.Edge{From: "n2", To: "n3", Label: "2. exd5"})
	g.AddEdge(dag.Edge{From: "n2", To: "n4", Label: "2. e5?!", Color: "#e58f2a"})
	return g
}

func TestMarshalGraph(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *dag.DAG
		wantNodes int
		wantEdges int
		check     func(t *testing.T, g Graph)
	}{
		{
			name:  "Empty",
			build: func() *dag.DAG { return dag.New(nil) },
		},
		{
			name:      "Study",
			build:     studyDAG,
			wantNodes: 4,
			wantEdges: 3,
			check: func(t *testing.T, g Graph) {
				if g.Meta["name"] != "Scandinavian" {
					t.Errorf("meta name = %v", g.Meta["name"])
				}
				if !g.Nodes[0].IsRoot() || g.Nodes[1].IsRoot() {
					t.Error("only the first node should be the root")
				}
				if g.Nodes[3].Color != "#e58f2a" || g.Edges[2].Color != "#e58f2a" {
					t.Error("annotation color lost")
				}
			},
		},
		{
			name: "KeepsRegistrationOrder",
			build: func() *dag.DAG {
				g := dag.New(nil)
				g.AddNode(dag.Node{ID: "z", Kind: dag.NodeKindRoot})
				g.AddNode(dag.Node{ID: "b", Row: 1})
				g.AddNode(dag.Node{ID: "a", Row: 1})
				return g
			},
			wantNodes: 3,
			check: func(t *testing.T, g Graph) {
				var ids []string
				for _, n := range g.Nodes {
					ids = append(ids, n.ID)
				}
				if got := strings.Join(ids, ","); got != "z,b,a" {
					t.Errorf("order = %s, want z,b,a", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalGraph(tt.build())
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}
			g, err := UnmarshalGraph(data)
			if err != nil {
				t.Fatalf("UnmarshalGraph: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("nodes/edges = %d/%d, want %d/%d", len(g.Nodes), len(g.Edges), tt.wantNodes, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig := studyDAG()

	var buf bytes.Buffer
	if err := WriteGraph(orig, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	if got.NodeCount() != orig.NodeCount() || got.EdgeCount() != orig.EdgeCount() {
		t.Fatalf("counts = %d/%d, want %d/%d", got.NodeCount(), got.EdgeCount(), orig.NodeCount(), orig.EdgeCount())
	}
	root := got.Root()
	if root == nil || root.ID != "n1" || root.Title != "intro" {
		t.Errorf("root = %+v", root)
	}
	n4, ok := got.Node("n4")
	if !ok || n4.Label != "2. e5?!" || n4.Weight != 1 || n4.Row != 2 || n4.Color != "#e58f2a" {
		t.Errorf("n4 = %+v", n4)
	}
	n2, _ := got.Node("n2")
	if n2.Meta["first_ply"] != float64(1) {
		t.Errorf("first_ply = %#v, want float64(1)", n2.Meta["first_ply"])
	}
	if got.Meta()["Event"] != "Study" {
		t.Errorf("graph meta = %v", got.Meta())
	}
	edges := got.Edges()
	if edges[1].Label != "2. exd5" {
		t.Errorf("edge label = %q", edges[1].Label)
	}

	var again bytes.Buffer
	if err := WriteGraph(got, &again); err != nil {
		t.Fatal(err)
	}
	first, _ := MarshalGraph(orig)
	if again.String() != string(first) {
		t.Errorf("re-export differs:\n%s\nvs\n%s", again.String(), first)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.json")
	if err := WriteGraphFile(studyDAG(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", g.NodeCount())
	}
}

func TestReadGraphFile_Missing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestReadGraph_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"Malformed", `{"nodes": [`, nil},
		{"UnknownKind", `{"nodes": [{"id": "a", "kind": "leaf"}]}`, nil},
		{"DuplicateNode", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, dag.ErrDuplicateNodeID},
		{"MissingEndpoint", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`, dag.ErrUnknownTargetNode},
		{"SkippedRow", `{"nodes": [{"id": "a"}, {"id": "b", "row": 2}], "edges": [{"from": "a", "to": "b"}]}`, dag.ErrNonConsecutiveRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
