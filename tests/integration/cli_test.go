// CLI integration tests for propcat. Each test runs the built binary
// against an isolated catalog.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the propcat binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "propcat-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "propcat")
	SetPropcatBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/propcat")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

func TestInitCreatesCatalog(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunPropcat("init")
	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	for _, name := range []string{"catalog.db", "property_types.jsonl", "object_types.jsonl", "revisions.jsonl"} {
		if _, err := os.Stat(filepath.Join(env.DataDir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}

	// A second init on the same directories succeeds.
	env.MustRunPropcat("init")
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunPropcat("version", "--json")
	parsed := ParseJSON[map[string]string](t, result.Stdout)
	if parsed["version"] == "" {
		t.Error("version missing from JSON output")
	}
}

func TestNewEnumAndShow(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")

	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water,Earth")

	result := env.MustRunPropcat("show", "Element", "--json")
	record := ParseJSON[TypeRecord](t, result.Stdout)
	if record.Type != "enum" {
		t.Errorf("expected enum, got %q", record.Type)
	}
	if record.ID == 0 {
		t.Error("id not assigned")
	}
	if record.StorageType != "string" {
		t.Errorf("default storage should be string, got %q", record.StorageType)
	}
	if len(record.Values) != 3 || record.Values[0] != "Fire" {
		t.Errorf("values mismatch: %v", record.Values)
	}

	// A duplicate name is refused.
	dup := env.RunPropcat("new-enum", "Element", "--values", "Other")
	if dup.ExitCode == 0 {
		t.Error("duplicate enum name should fail")
	}
	if !strings.Contains(dup.Stderr, "already exists") {
		t.Errorf("expected duplicate-name error, got: %s", dup.Stderr)
	}
}

func TestNewEnumFlagsAndStorage(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")

	result := env.MustRunPropcat("new-enum", "Abilities", "--values", "Fly,Swim,Dig", "--flags", "--storage", "int", "--json")
	record := ParseJSON[TypeRecord](t, result.Stdout)
	if !record.ValuesAsFlags {
		t.Error("valuesAsFlags not set")
	}
	if record.StorageType != "int" {
		t.Errorf("expected int storage, got %q", record.StorageType)
	}

	bad := env.RunPropcat("new-enum", "Broken", "--values", "A", "--storage", "blob")
	if bad.ExitCode == 0 {
		t.Error("unknown storage should fail")
	}
}

func TestNewClassMembers(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water")

	result := env.MustRunPropcat("new-class", "Monster",
		"--member", "hp=int",
		"--member", "name=string",
		"--member", "element=enum:Element",
		"--json")
	record := ParseJSON[TypeRecord](t, result.Stdout)
	if record.Type != "class" {
		t.Errorf("expected class, got %q", record.Type)
	}
	if len(record.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(record.Members))
	}

	hp := record.memberByName("hp")
	if hp == nil || hp.Type != "int" {
		t.Errorf("hp member wrong: %+v", hp)
	}
	element := record.memberByName("element")
	if element == nil || element.PropertyType != "Element" {
		t.Errorf("element member should carry the type annotation: %+v", element)
	}
	if element != nil && element.Value != "Fire" {
		t.Errorf("enum member default should export as its first value, got %v", element.Value)
	}

	unknown := env.RunPropcat("new-class", "Broken", "--member", "e=enum:Missing")
	if unknown.ExitCode == 0 {
		t.Error("unknown member type reference should fail")
	}
	if !strings.Contains(unknown.Stderr, "unknown property type") {
		t.Errorf("expected unknown-type error, got: %s", unknown.Stderr)
	}
}

func TestListFiltersByKind(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire")
	env.MustRunPropcat("new-enum", "State", "--values", "Idle,Active")
	env.MustRunPropcat("new-class", "Monster", "--member", "hp=int")

	all := env.MustRunPropcat("list")
	if got := countLines(all.Stdout); got != 3 {
		t.Errorf("expected 3 listed types, got %d:\n%s", got, all.Stdout)
	}

	enums := env.MustRunPropcat("list", "enum")
	if got := countLines(enums.Stdout); got != 2 {
		t.Errorf("expected 2 enums, got %d", got)
	}

	classes := env.MustRunPropcat("list", "class", "--json")
	records := ParseJSON[[]TypeRecord](t, classes.Stdout)
	if len(records) != 1 || records[0].Name != "Monster" {
		t.Errorf("class filter mismatch: %+v", records)
	}

	bogus := env.RunPropcat("list", "widget")
	if bogus.ExitCode == 0 {
		t.Error("unknown kind should fail")
	}
}

func TestDeleteAndRevisions(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Fruit", "--values", "Apple,Banana")

	env.MustRunPropcat("delete", "Fruit")

	missing := env.RunPropcat("show", "Fruit")
	if missing.ExitCode == 0 {
		t.Error("show after delete should fail")
	}

	list := env.MustRunPropcat("list")
	if countLines(list.Stdout) != 0 {
		t.Errorf("catalog should be empty, got:\n%s", list.Stdout)
	}

	revs := env.MustRunPropcat("revisions", "Fruit")
	lines := strings.Split(strings.TrimSpace(revs.Stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 revisions, got %d:\n%s", len(lines), revs.Stdout)
	}
	// Newest first: the delete precedes the create in the listing.
	if !strings.Contains(lines[0], "delete") || !strings.Contains(lines[1], "create") {
		t.Errorf("revision order wrong:\n%s", revs.Stdout)
	}

	deleteMissing := env.RunPropcat("delete", "Fruit")
	if deleteMissing.ExitCode == 0 {
		t.Error("deleting a missing type should fail")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water")
	env.MustRunPropcat("new-class", "Monster", "--member", "element=enum:Element", "--member", "hp=int")

	exportPath := filepath.Join(env.TempDir, "types.json")
	env.MustRunPropcat("export", exportPath)

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var records []TypeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 exported records, got %d", len(records))
	}

	// A fresh catalog loads the file with ids intact.
	env2 := NewTestEnv(t)
	env2.MustRunPropcat("init")
	env2.MustRunPropcat("import", exportPath)

	element := ParseJSON[TypeRecord](t, env2.MustRunPropcat("show", "Element", "--json").Stdout)
	if element.ID != records[0].ID {
		t.Errorf("import should keep ids: got %d, want %d", element.ID, records[0].ID)
	}
	monster := ParseJSON[TypeRecord](t, env2.MustRunPropcat("show", "Monster", "--json").Stdout)
	member := monster.memberByName("element")
	if member == nil || member.PropertyType != "Element" {
		t.Errorf("member annotation lost in round trip: %+v", member)
	}
}

func TestImportMerge(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water")

	incoming := `[
  {"type":"enum","id":7,"name":"Element","storageType":"string","values":["Plasma","Void"],"valuesAsFlags":false},
  {"type":"class","id":9,"name":"Monster","members":[{"name":"element","type":"string","value":"Plasma","propertyType":"Element"}]}
]`
	importPath := filepath.Join(env.TempDir, "incoming.json")
	if err := os.WriteFile(importPath, []byte(incoming), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	result := env.MustRunPropcat("import", importPath, "--merge", "--json")
	counts := ParseJSON[map[string]int](t, result.Stdout)
	if counts["imported"] != 2 || counts["replaced"] != 1 || counts["skipped"] != 0 {
		t.Errorf("merge counts wrong: %v", counts)
	}

	// The matching name keeps its stored id, not the file's.
	element := ParseJSON[TypeRecord](t, env.MustRunPropcat("show", "Element", "--json").Stdout)
	if element.ID != 1 {
		t.Errorf("merged Element should keep id 1, got %d", element.ID)
	}
	if len(element.Values) != 2 || element.Values[0] != "Plasma" {
		t.Errorf("merged Element values not updated: %v", element.Values)
	}

	// The new name gets the next free id, not the file's.
	monster := ParseJSON[TypeRecord](t, env.MustRunPropcat("show", "Monster", "--json").Stdout)
	if monster.ID != 2 {
		t.Errorf("merged Monster should get id 2, got %d", monster.ID)
	}
}

func TestValidate(t *testing.T) {
	env := NewTestEnv(t)

	good := `[{"type":"enum","name":"Element","values":["Fire"]}]`
	goodPath := filepath.Join(env.TempDir, "good.json")
	if err := os.WriteFile(goodPath, []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	env.MustRunPropcat("validate", goodPath)

	bad := `[
  {"type":"enum","name":"Element","values":["Fire"]},
  {"type":"widget","name":"Gadget"},
  {"type":"class","name":"Monster","members":[{"name":"pet","type":"string","value":"","propertyType":"Ghost"}]}
]`
	badPath := filepath.Join(env.TempDir, "bad.json")
	if err := os.WriteFile(badPath, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	result := env.RunPropcat("validate", badPath, "--json")
	if result.ExitCode == 0 {
		t.Error("validate should fail on problems")
	}
	report := ParseJSON[struct {
		Valid    int      `json:"valid"`
		Skipped  int      `json:"skipped"`
		Problems []string `json:"problems"`
	}](t, result.Stdout)
	if report.Valid != 2 || report.Skipped != 1 {
		t.Errorf("counts wrong: %+v", report)
	}
	if len(report.Problems) != 1 || !strings.Contains(report.Problems[0], "Ghost") {
		t.Errorf("expected one unresolved-reference problem, got %v", report.Problems)
	}

	notJSON := filepath.Join(env.TempDir, "broken.json")
	if err := os.WriteFile(notJSON, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if env.RunPropcat("validate", notJSON).ExitCode == 0 {
		t.Error("validate should fail on an unparseable document")
	}
}

func TestGenWritesGoSource(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water")
	env.MustRunPropcat("new-class", "Monster", "--member", "hp=int", "--member", "element=enum:Element")

	outPath := filepath.Join(env.TempDir, "types_gen.go")
	env.MustRunPropcat("gen", "--out", outPath, "--package", "game")

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	source := string(data)
	for _, want := range []string{"package game", "type Element int", "ElementFire", "type Monster struct"} {
		if !strings.Contains(source, want) {
			t.Errorf("generated source missing %q", want)
		}
	}

	stdout := env.MustRunPropcat("gen")
	if !strings.Contains(stdout.Stdout, "package proptypes") {
		t.Error("gen without --out should write source to stdout")
	}
}

func TestDatabaseRebuildFromJSONL(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunPropcat("init")
	env.MustRunPropcat("new-enum", "Element", "--values", "Fire,Water")
	env.MustRunPropcat("new-class", "Monster", "--member", "hp=int")

	// The SQLite file is disposable; the JSONL files are the source of
	// truth.
	if err := os.Remove(filepath.Join(env.DataDir, "catalog.db")); err != nil {
		t.Fatalf("remove catalog.db: %v", err)
	}

	list := env.MustRunPropcat("list")
	if got := countLines(list.Stdout); got != 2 {
		t.Errorf("expected 2 types after rebuild, got %d:\n%s", got, list.Stdout)
	}
	element := ParseJSON[TypeRecord](t, env.MustRunPropcat("show", "Element", "--json").Stdout)
	if len(element.Values) != 2 {
		t.Errorf("definition lost in rebuild: %+v", element)
	}
}

// countLines counts non-empty lines.
func countLines(s string) int {
	count := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
