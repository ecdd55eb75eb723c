package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"interview_hosting/internal/records"
)

// fakeStore backs the engine with in-memory sheets. Promotions take effect
// the way the real store applies them: appends land in the tracked sheet
// and flag writes pad the intake row to full width.
type fakeStore struct {
	intake  [][]interface{}
	tracked [][]interface{}

	readErr   error
	appendErr error

	appendedRows [][]interface{}
	cellUpdates  map[string]interface{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{cellUpdates: make(map[string]interface{})}
}

func (s *fakeStore) ReadRange(ctx context.Context, range_ string) ([][]interface{}, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if strings.HasPrefix(range_, DefaultIntakeSheet+"!") {
		return s.intake, nil
	}
	return s.tracked, nil
}

func (s *fakeStore) AppendRows(ctx context.Context, range_ string, rows [][]interface{}) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appendedRows = append(s.appendedRows, rows...)
	s.tracked = append(s.tracked, rows...)
	return nil
}

func (s *fakeStore) UpdateCell(ctx context.Context, cellRange string, value interface{}) error {
	s.cellUpdates[cellRange] = value
	if sheet, row, ok := parseCellRow(cellRange); ok && sheet == DefaultIntakeSheet {
		for len(s.intake[row-1]) < records.IntakeColumnCount {
			s.intake[row-1] = append(s.intake[row-1], "")
		}
		s.intake[row-1][records.IntakeColumnCount-1] = value
	}
	return nil
}

func parseCellRow(cellRange string) (string, int, bool) {
	sheet, cell, ok := strings.Cut(cellRange, "!")
	if !ok {
		return "", 0, false
	}
	digits := strings.TrimLeft(cell, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	row, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return sheet, row, true
}

func intakeHeader() []interface{} {
	row := make([]interface{}, records.IntakeColumnCount)
	for i := range row {
		row[i] = fmt.Sprintf("Header %d", i)
	}
	return row
}

// newArrivalRow is an intake submission that has not been copied yet: 11
// columns, no flag in the last column.
func newArrivalRow(name, date, email string) []interface{} {
	return []interface{}{
		"n/a", name, "F", "03/14/2024", date, email,
		"555-0100", "State U", "any", "none", "hiking",
	}
}

func trackedHeader() []interface{} {
	row := make([]interface{}, records.TrackedColumnCount)
	for i := range row {
		row[i] = fmt.Sprintf("Header %d", i)
	}
	return row
}

func trackedRow(name, date, status string) []interface{} {
	return []interface{}{
		"Dana Host", name, "F", "03/14/2024", date, name + "@example.com",
		"555-0100", "State U", "any", "none", "hiking", "dana@example.com", status,
	}
}

func TestRefreshPromotesNewArrivals(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{
		intakeHeader(),
		newArrivalRow("Alex Rivera", "03/15/2024", "alex@example.com"),
	}
	store.tracked = [][]interface{}{trackedHeader()}

	eng := New(store)
	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.appendedRows) != 1 {
		t.Fatalf("Expected 1 promoted row, got %d", len(store.appendedRows))
	}
	seeded := store.appendedRows[0]
	if len(seeded) != records.TrackedColumnCount {
		t.Fatalf("Expected %d columns in seeded row, got %d", records.TrackedColumnCount, len(seeded))
	}
	if seeded[records.ColHostName] != "" {
		t.Errorf("Expected blank host name in seeded row, got %v", seeded[records.ColHostName])
	}
	if seeded[records.ColStatus] != "0" {
		t.Errorf("Expected initial status digit, got %v", seeded[records.ColStatus])
	}
	if got, ok := store.cellUpdates["Sheet1!L2"]; !ok || got != "1" {
		t.Errorf("Expected intake row 2 flagged via Sheet1!L2, got %v", store.cellUpdates)
	}

	receipt := eng.Projection(records.KindReceipt)
	if len(receipt.Candidates) != 1 || receipt.Candidates[0].Name != "Alex Rivera" {
		t.Errorf("Expected promoted candidate in receipt projection, got %+v", receipt.Candidates)
	}
}

func TestRefreshPromotionIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{
		intakeHeader(),
		newArrivalRow("Alex Rivera", "03/15/2024", "alex@example.com"),
	}
	store.tracked = [][]interface{}{trackedHeader()}

	eng := New(store)
	for i := 0; i < 3; i++ {
		if err := eng.Refresh(context.Background(), nil); err != nil {
			t.Fatalf("Refresh %d: expected no error, got %v", i, err)
		}
	}

	if len(store.appendedRows) != 1 {
		t.Errorf("Expected the arrival promoted exactly once, got %d appends", len(store.appendedRows))
	}
	receipt := eng.Projection(records.KindReceipt)
	if len(receipt.Candidates) != 1 {
		t.Errorf("Expected 1 candidate after repeated refresh, got %d", len(receipt.Candidates))
	}
}

func TestPullFailureLeavesSnapshotUntouched(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{
		trackedHeader(),
		trackedRow("Alex Rivera", "03/15/2024", "1"),
	}

	eng := New(store)
	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	store.readErr = errors.New("deadline exceeded")
	err := eng.Refresh(context.Background(), nil)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}

	snapshot := eng.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Name != "Alex Rivera" {
		t.Errorf("Expected previous snapshot preserved, got %+v", snapshot)
	}
}

func TestProjectionsPartitionedByStatusAndSorted(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{
		trackedHeader(),
		trackedRow("March", "03/01/2024", "0"),
		trackedRow("Paired One", "05/05/2024", "2"),
		trackedRow("January", "01/15/2024", "0"),
		trackedRow("Pairing One", "02/02/2024", "1"),
		trackedRow("December", "12/25/2023", "0"),
		trackedRow("Ignored One", "04/04/2024", "3"),
	}

	eng := New(store)
	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	receipt := eng.Projection(records.KindReceipt)
	names := make([]string, len(receipt.Candidates))
	for i, c := range receipt.Candidates {
		names[i] = c.Name
	}
	expected := []string{"December", "January", "March"}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("Receipt position %d: expected %s, got %s", i, want, names[i])
		}
	}

	if n := len(eng.Projection(records.KindPairing).Candidates); n != 1 {
		t.Errorf("Expected 1 pairing candidate, got %d", n)
	}
	if n := len(eng.Projection(records.KindDone).Candidates); n != 1 {
		t.Errorf("Expected 1 done candidate, got %d", n)
	}
	if n := len(eng.Projection(records.KindIgnored).Candidates); n != 1 {
		t.Errorf("Expected 1 ignored candidate, got %d", n)
	}
}

func TestProjectionUnparseableDateKeepsPosition(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{
		trackedHeader(),
		trackedRow("March", "03/01/2024", "0"),
		trackedRow("Undated", "not-a-date", "0"),
		trackedRow("January", "01/15/2024", "0"),
	}

	eng := New(store)
	var warned []string
	err := eng.Refresh(context.Background(), func(value string) { warned = append(warned, value) })
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	receipt := eng.Projection(records.KindReceipt)
	if receipt.Candidates[1].Name != "Undated" {
		t.Errorf("Expected undated candidate to keep position 1, got %s", receipt.Candidates[1].Name)
	}
	if receipt.Candidates[0].Name != "January" || receipt.Candidates[2].Name != "March" {
		t.Errorf("Expected dated candidates sorted around the undated one, got %+v", receipt.Candidates)
	}
	if len(warned) != 1 || warned[0] != "not-a-date" {
		t.Errorf("Expected one date warning, got %v", warned)
	}
}

func TestMalformedStatusRowSkippedOthersSurvive(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{
		trackedHeader(),
		trackedRow("Good Row", "03/15/2024", "1"),
		trackedRow("Bad Row", "03/16/2024", "9"),
	}

	eng := New(store)
	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	snapshot := eng.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Name != "Good Row" {
		t.Errorf("Expected only the well-formed row, got %+v", snapshot)
	}
	// Row identity survives the skip: the good row is still sheet row 2.
	if snapshot[0].RowIndex != 2 {
		t.Errorf("Expected row index 2, got %d", snapshot[0].RowIndex)
	}
}

func TestProjectionReturnsIndependentCopy(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{
		trackedHeader(),
		trackedRow("Alex Rivera", "03/15/2024", "0"),
	}

	eng := New(store)
	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	p := eng.Projection(records.KindReceipt)
	p.Candidates[0].Name = "edited"

	if eng.Projection(records.KindReceipt).Candidates[0].Name != "Alex Rivera" {
		t.Error("Editing a returned projection leaked into the engine snapshot")
	}
}

func TestSubscribersNotifiedAfterRefresh(t *testing.T) {
	store := newFakeStore()
	store.intake = [][]interface{}{intakeHeader()}
	store.tracked = [][]interface{}{trackedHeader()}

	eng := New(store)
	notified := 0
	eng.Subscribe(func() { notified++ })

	if err := eng.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if notified != 1 {
		t.Errorf("Expected 1 notification, got %d", notified)
	}

	store.readErr = errors.New("down")
	_ = eng.Refresh(context.Background(), nil)
	if notified != 1 {
		t.Errorf("Expected no notification on failed refresh, got %d", notified)
	}
}
