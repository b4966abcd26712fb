package sweep

import (
	"context"
	"testing"
)

func testGrid() Grid {
	return Grid{KMin: 0.1, KMax: 0.5, CMin: 0.7, CMax: 0.9, Steps: 3}
}

func TestRunFillsEveryCell(t *testing.T) {
	res, err := Run(context.Background(), testGrid(), Opts{From: 0, To: 1})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Cells) != 3 {
		t.Fatalf("rows = %d, want 3", len(res.Cells))
	}
	for ci, row := range res.Cells {
		if len(row) != 3 {
			t.Fatalf("row %d has %d cells, want 3", ci, len(row))
		}
		for ki, cell := range row {
			if cell.K == 0 || cell.C == 0 {
				t.Errorf("cell [%d][%d] not filled: %+v", ci, ki, cell)
			}
		}
	}
	// Axis endpoints land exactly on the configured range.
	if res.Cells[0][0].K != 0.1 || res.Cells[0][2].K != 0.5 {
		t.Errorf("stiffness axis = %v..%v, want 0.1..0.5", res.Cells[0][0].K, res.Cells[0][2].K)
	}
	if res.Cells[0][0].C != 0.7 || res.Cells[2][0].C != 0.9 {
		t.Errorf("damping axis = %v..%v, want 0.7..0.9", res.Cells[0][0].C, res.Cells[2][0].C)
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	g := testGrid()
	serial, err := Run(context.Background(), g, Opts{From: 0, To: 1, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Run(context.Background(), g, Opts{From: 0, To: 1, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	for ci := range serial.Cells {
		for ki := range serial.Cells[ci] {
			if serial.Cells[ci][ki] != parallel.Cells[ci][ki] {
				t.Fatalf("cell [%d][%d] differs: %+v vs %+v",
					ci, ki, serial.Cells[ci][ki], parallel.Cells[ci][ki])
			}
		}
	}
}

func TestStifferSpringSettlesFaster(t *testing.T) {
	res, err := Run(context.Background(), Grid{
		KMin: 0.1, KMax: 0.5, CMin: 0.7, CMax: 0.7, Steps: 2,
	}, Opts{From: 0, To: 1})
	if err != nil {
		t.Fatal(err)
	}
	soft := res.Cells[0][0]
	stiff := res.Cells[0][1]
	if soft.SettlingFrames < 0 || stiff.SettlingFrames < 0 {
		t.Fatalf("both cells should settle within budget: %+v %+v", soft, stiff)
	}
	if stiff.SettlingFrames >= soft.SettlingFrames {
		t.Errorf("stiff settling %d should beat soft %d",
			stiff.SettlingFrames, soft.SettlingFrames)
	}
}

func TestBudgetExhaustion(t *testing.T) {
	res, err := Run(context.Background(), testGrid(), Opts{From: 0, To: 1, Budget: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Cells[0][0].SettlingFrames; got != -1 {
		t.Errorf("settling under a 2 frame budget = %d, want -1", got)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testGrid(), Opts{From: 0, To: 1}); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestGridValidation(t *testing.T) {
	tests := []struct {
		name string
		g    Grid
	}{
		{"one step", Grid{KMin: 0.1, KMax: 0.5, CMin: 0.7, CMax: 0.9, Steps: 1}},
		{"zero stiffness", Grid{KMin: 0, KMax: 0.5, CMin: 0.7, CMax: 0.9, Steps: 3}},
		{"stiffness above one", Grid{KMin: 0.1, KMax: 1.5, CMin: 0.7, CMax: 0.9, Steps: 3}},
		{"inverted damping", Grid{KMin: 0.1, KMax: 0.5, CMin: 0.9, CMax: 0.7, Steps: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.g, Opts{}); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
