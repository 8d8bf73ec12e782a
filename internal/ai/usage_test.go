package ai

import "testing"

func TestUsageMeter_Unlimited(t *testing.T) {
	m := NewUsageMeter(0)
	m.Record(TaskQuestions, 1_000_000)
	if m.Exhausted() {
		t.Error("Exhausted() = true, want false (zero budget means unlimited)")
	}
}

func TestUsageMeter_RecordAndSnapshot(t *testing.T) {
	m := NewUsageMeter(100)
	m.Record(TaskQuestions, 30)
	m.Record(TaskQuestions, 20)
	m.Record(TaskMaterial, 10)
	m.Record(TaskMaterial, -5)

	if got := m.Total(); got != 60 {
		t.Errorf("Total() = %d, want 60", got)
	}
	snap := m.Snapshot()
	if snap["questions"] != 50 || snap["material"] != 10 {
		t.Errorf("Snapshot() = %v", snap)
	}
	if m.Exhausted() {
		t.Error("Exhausted() = true, want false (60 < 100)")
	}

	m.Record(TaskLessonPlan, 40)
	if !m.Exhausted() {
		t.Error("Exhausted() = false, want true (100 >= 100)")
	}
}
