package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/codetrain/ent/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, e := range entities {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", e.table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", e.table, err)
		}
	}
}

func TestBuildTableCarriesColumnSize(t *testing.T) {
	for _, e := range entities {
		if _, err := buildTable(e.table, e.schema); err != nil {
			t.Fatalf("table %s: %v", e.table, err)
		}
	}

	tbl, err := buildTable(tableLearners, schema.Learner{})
	if err != nil {
		t.Fatalf("learners: %v", err)
	}
	for _, c := range tbl.Columns {
		if c.Name == "external_id" {
			if c.Size != 128 {
				t.Errorf("external_id size = %d, want 128", c.Size)
			}
			return
		}
	}
	t.Fatal("external_id column missing")
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s.Close()
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Fatalf("seq[%d] = %d, not greater than %d", i, seq, prev)
		}
		prev = seq
	}

	// A rolled back draw is handed out again.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	inTx, err := s.seq.NextIn(ctx, tx)
	if err != nil {
		t.Fatalf("next in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	after, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next after rollback: %v", err)
	}
	if inTx != prev+1 || after != inTx {
		t.Errorf("in tx = %d, after rollback = %d, want both %d", inTx, after, prev+1)
	}
}

func TestLearnerEnsure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Learners().Ensure(ctx, "alice")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	again, err := s.Learners().Ensure(ctx, "alice")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != again.ID {
		t.Errorf("ensure created a second row: %d vs %d", first.ID, again.ID)
	}

	if _, err := s.Learners().Ensure(ctx, "bob"); err != nil {
		t.Fatalf("ensure bob: %v", err)
	}
	all, err := s.Learners().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("learners = %d, want 2", len(all))
	}
}

func insertTask(t *testing.T, s *Store, topic, difficulty string) *Task {
	t.Helper()
	task, err := s.Tasks().Insert(context.Background(), Task{
		Title:         "Sum of list",
		Text:          "Write solve(nums) returning the sum.",
		Difficulty:    difficulty,
		Topic:         topic,
		IdealSolution: "def solve(nums): return sum(nums)",
		TestCases:     []TestCase{{Input: "[1, 2, 3]", Output: "6"}},
	})
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return task
}

func TestTaskFindFiltersTopicAndLevels(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	insertTask(t, s, "lists", "hard")
	insertTask(t, s, "strings", "easy")
	want := insertTask(t, s, "lists", "easy")

	got, err := s.Tasks().Find(ctx, "lists", []string{"easy"}, nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("find = %+v, want task %d", got, want.ID)
	}
	if len(got.TestCases) != 1 || got.TestCases[0].Output != "6" {
		t.Errorf("test cases not round-tripped: %+v", got.TestCases)
	}
}

func TestTaskFindExcludesUsedIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := insertTask(t, s, "sets", "medium")
	b := insertTask(t, s, "sets", "medium")

	got, err := s.Tasks().Find(ctx, "sets", []string{"easy", "medium"}, []int64{a.ID})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != b.ID {
		t.Fatalf("find = %+v, want task %d", got, b.ID)
	}

	got, err = s.Tasks().Find(ctx, "sets", []string{"medium"}, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("find exhausted: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got task %d", got.ID)
	}
}

func TestTaskGetAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := insertTask(t, s, "dicts", "easy")
	insertTask(t, s, "dicts", "hard")

	got, err := s.Tasks().Get(ctx, a.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if got.Source != "generated" {
		t.Errorf("source = %q, want generated", got.Source)
	}

	missing, err := s.Tasks().Get(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("get missing = %v, %v", missing, err)
	}

	list, err := s.Tasks().List(ctx, TaskFilter{Topic: "dicts", Difficulty: "hard"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Difficulty != "hard" {
		t.Errorf("list = %+v", list)
	}
}

func TestMasterySaveKeepsFirstObservedOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Mastery()

	if err := repo.Save(ctx, "alice", []SkillLevel{{"sets", 0.5}, {"lists", 0.3}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "alice", []SkillLevel{{"lists", 0.4}, {"dicts", 0.7}}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []SkillLevel{{"sets", 0.5}, {"lists", 0.4}, {"dicts", 0.7}}
	if len(got) != len(want) {
		t.Fatalf("load = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	other, err := repo.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("bob has levels: %+v", other)
	}
}

func TestAttemptCommitAndStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Attempts()
	now := time.Now().UTC()

	attempts := []Attempt{
		{
			SessionID: "s1", LearnerID: "alice", TaskID: 1, Skill: "lists",
			Correct: true, MasteryBefore: 0.5, MasteryAfter: 0.69,
			Hints:          []HintUse{{Text: "use sum", Timestamp: now}},
			StartedAt:      now, FinishedAt: now,
			TimeComplexity: "O(n)", Style: 0.8, PEP8: 1.0, Optimal: 0.9, ChatGPTStyle: 0.2,
			Feedback: json.RawMessage(`{"correct":true}`),
		},
		{
			SessionID: "s1", LearnerID: "alice", TaskID: 2, Skill: "sets",
			Correct: false, MasteryBefore: 0.5, MasteryAfter: 0.22,
			StartedAt: now, FinishedAt: now,
			TimeComplexity: "O(n^2)", Style: 0.4, PEP8: 0.6, Optimal: 0.3, ChatGPTStyle: 0.4,
		},
	}
	for i, a := range attempts {
		if err := repo.Commit(ctx, a, []SkillLevel{{a.Skill, a.MasteryAfter}}); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	stats, err := repo.Stats(ctx, "alice")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 2 || stats.SuccessfulAttempts != 1 || stats.TotalHintsUsed != 1 {
		t.Errorf("counters = %+v", stats)
	}
	if d := stats.AvgStyle - 0.6; d > 1e-9 || d < -1e-9 {
		t.Errorf("avg style = %v, want 0.6", stats.AvgStyle)
	}
	if len(stats.TimeComplexities) != 2 || stats.TimeComplexities[1] != "O(n^2)" {
		t.Errorf("complexities = %v", stats.TimeComplexities)
	}

	levels, err := s.Mastery().Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load mastery: %v", err)
	}
	if len(levels) != 2 {
		t.Errorf("mastery rows = %+v, want 2", levels)
	}

	history, err := repo.ForLearner(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("for learner: %v", err)
	}
	if len(history) != 2 || history[0].TaskID != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[1].Status() != "success" || len(history[1].Hints) != 1 {
		t.Errorf("first attempt not round-tripped: %+v", history[1])
	}
}

func TestAttemptStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.Attempts().Stats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 0 || stats.AvgPEP8 != 0 || len(stats.TimeComplexities) != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestSessionEventAppend(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Attempts().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", LearnerID: "alice", Action: "start", CyclesPlanned: 6,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM session_events").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("session events = %d, want 1", n)
	}

	err = s.Attempts().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", LearnerID: "alice", Action: "end", CyclesPlanned: 6,
		CyclesCompleted: 5, CyclesSkipped: 1, TasksPresented: 6, Correct: 4, DurationMs: 90_000,
	})
	if err != nil {
		t.Fatalf("append end: %v", err)
	}
	var correct int
	var dur int64
	row := s.DB().QueryRow("SELECT correct, duration_ms FROM session_events WHERE action = 'end'")
	if err := row.Scan(&correct, &dur); err != nil {
		t.Fatalf("scan end: %v", err)
	}
	if correct != 4 || dur != 90_000 {
		t.Errorf("end event = %d correct, %dms", correct, dur)
	}

	// Each session starts and ends once.
	err = s.Attempts().AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", LearnerID: "alice", Action: "end"})
	if err == nil {
		t.Error("second end event accepted")
	}
}

func TestLLMEventsQueryAndUsage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "task-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "analyze", SessionID: "s-1", InputTokens: 80, OutputTokens: 40, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "task-gen", InputTokens: 10, OutputTokens: 0, LatencyMs: 400, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 || list[0].ErrorMessage != "boom" {
		t.Fatalf("query = %+v", list)
	}

	scoped, err := repo.QueryLLMEvents(ctx, QueryOpts{Session: "s-1"})
	if err != nil {
		t.Fatalf("query session: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Purpose != "analyze" || scoped[0].SessionID != "s-1" {
		t.Fatalf("session query = %+v", scoped)
	}

	got, err := repo.GetLLMEvent(ctx, list[0].ID)
	if err != nil || got == nil || got.Success {
		t.Fatalf("get = %+v, %v", got, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage groups = %+v", byPurpose)
	}
	gen := byPurpose[1]
	if gen.Purpose != "task-gen" || gen.Calls != 2 || gen.InputTokens != 110 || gen.AvgLatencyMs != 300 {
		t.Errorf("task-gen usage = %+v", gen)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 {
		t.Errorf("model usage = %+v", byModel)
	}
}
