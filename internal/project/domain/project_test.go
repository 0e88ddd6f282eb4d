package domain

import (
	"testing"
	"time"
)

var (
	day = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	now = day.Add(13*time.Hour + 5*time.Minute)
)

func sampleProject() Project {
	p := NewProject("p1", "Sprint 1", "", "alice", day, now)
	p.AddGroup(Group{ID: "g1", Name: "Backlog", Columns: []Column{
		{ID: "c1", Name: "Todo", Tasks: []Task{{ID: "t1", Title: "Fix bug"}}},
	}})
	return p
}

func TestNewProject_CreatorIsOnlyMember(t *testing.T) {
	p := NewProject("p1", "Sprint 1", "", "alice", day, now)

	if len(p.Members) != 1 || p.Members[0] != "alice" {
		t.Fatalf("expected members [alice], got %v", p.Members)
	}
	if !p.IsMember(p.CreatedBy) {
		t.Error("expected creator to be a member")
	}
	if p.Groups == nil || len(p.Groups) != 0 {
		t.Errorf("expected empty non-nil groups, got %#v", p.Groups)
	}
}

func TestIsMember_IgnoresCreatedBy(t *testing.T) {
	p := sampleProject()
	p.Members = []string{"bob"}

	if p.IsMember("alice") {
		t.Error("expected createdBy alone not to grant membership")
	}
	if !p.IsMember("bob") {
		t.Error("expected bob to be a member")
	}
}

func TestLookupReturnsPointerIntoAggregate(t *testing.T) {
	p := sampleProject()

	g, ok := p.Group("g1")
	if !ok {
		t.Fatal("expected group g1")
	}
	c, ok := g.Column("c1")
	if !ok {
		t.Fatal("expected column c1")
	}
	c.AddTask(Task{ID: "t2", Title: "Write docs"})

	if got := len(p.Groups[0].Columns[0].Tasks); got != 2 {
		t.Errorf("expected mutation through lookup to reach the aggregate, got %d tasks", got)
	}

	if _, ok := p.Group("missing"); ok {
		t.Error("expected missing group lookup to fail")
	}
}

func TestRemove_AbsentIDIsNoOp(t *testing.T) {
	p := sampleProject()
	g, _ := p.Group("g1")
	c, _ := g.Column("c1")

	if c.RemoveTask("nope") || g.RemoveColumn("nope") || p.RemoveGroup("nope") {
		t.Error("expected removal of absent ids to report no change")
	}
	if len(p.Groups) != 1 || len(p.Groups[0].Columns) != 1 || len(p.Groups[0].Columns[0].Tasks) != 1 {
		t.Error("expected aggregate to be unchanged")
	}

	if !c.RemoveTask("t1") || len(c.Tasks) != 0 {
		t.Error("expected task t1 to be removed")
	}
	if !g.RemoveColumn("c1") || len(g.Columns) != 0 {
		t.Error("expected column c1 to be removed")
	}
	if !p.RemoveGroup("g1") || len(p.Groups) != 0 {
		t.Error("expected group g1 to be removed")
	}
}

func TestClone_IsDeep(t *testing.T) {
	assignee := "alice"
	p := sampleProject()
	p.Groups[0].Columns[0].Tasks[0].AssignedTo = &assignee

	c := p.Clone()
	c.Members[0] = "mallory"
	c.Groups[0].Name = "Changed"
	c.Groups[0].Columns[0].Tasks[0].Title = "Changed"
	*c.Groups[0].Columns[0].Tasks[0].AssignedTo = "mallory"

	if p.Members[0] != "alice" || p.Groups[0].Name != "Backlog" {
		t.Error("expected clone not to alias members or groups")
	}
	if p.Groups[0].Columns[0].Tasks[0].Title != "Fix bug" || *p.Groups[0].Columns[0].Tasks[0].AssignedTo != "alice" {
		t.Error("expected clone not to alias tasks")
	}
}

func TestGroupLog_Appends(t *testing.T) {
	g := Group{ID: "g1"}
	g.Log(ActionGroupCreated, "alice", now)
	g.Log(ActionColumnCreated, "bob", now.Add(time.Minute))

	if len(g.Logs) != 2 || g.Logs[0].Action != ActionGroupCreated || g.Logs[1].By != "bob" {
		t.Errorf("unexpected log: %+v", g.Logs)
	}
}
