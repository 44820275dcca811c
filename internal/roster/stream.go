package roster

import (
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// Assemble flattens the blocks of consecutive days into a single stream,
// joining blocks that continue across midnight and adding guard blocks at
// each end of the roster period. The last block of a non-empty stream is
// always the end guard.
func Assemble(days []Day) []model.Block {
	if len(days) == 0 {
		return nil
	}
	first := dayStart(days[0].Date)
	end := dayStart(days[len(days)-1].Date).AddDate(0, 0, 1)

	startGuard := model.Block{model.Label(model.Placeholder, first), model.Time(first)}
	stream := []model.Block{startGuard}
	guardUsed := false

	for _, day := range days {
		for _, block := range day.Blocks {
			if !block.HasTime() {
				continue
			}
			last := stream[len(stream)-1]
			if block[0].IsTime() && last[len(last)-1].IsTime() {
				merged := make(model.Block, 0, len(last)+len(block))
				merged = append(merged, last...)
				merged = append(merged, block...)
				stream[len(stream)-1] = merged
				if len(stream) == 1 {
					guardUsed = true
				}
				continue
			}
			stream = append(stream, block)
		}
	}

	if !guardUsed {
		stream = stream[1:]
	}
	if len(stream) == 0 {
		return nil
	}

	// An unterminated two-token block at the very end is closed at midnight.
	last := stream[len(stream)-1]
	if len(last) == 2 && last[1].IsTime() {
		closed := make(model.Block, 0, 3)
		closed = append(closed, last...)
		closed = append(closed, model.Time(end))
		stream[len(stream)-1] = closed
	}
	return append(stream, endGuard(end))
}

func endGuard(end time.Time) model.Block {
	return model.Block{model.Label(model.Placeholder, end.AddDate(0, 0, -1)), model.Time(end), model.Time(end)}
}

func isEndGuard(b model.Block) bool {
	return len(b) == 3 &&
		b[0].IsLabel() && b[0].Text == model.Placeholder &&
		b[1].IsTime() && b[2].IsTime() &&
		b[1].Time.Equal(b[2].Time) &&
		b[1].Time.Equal(dayStart(b[1].Time))
}
