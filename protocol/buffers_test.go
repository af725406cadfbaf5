package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Output([]byte{4, 5})
	result := scratch.Result()
	if len(result) != 5 || result[4] != 5 {
		t.Errorf("Expected [1 2 3 4 5], got %v", result)
	}

	scratch.Update(0, 9)
	if scratch.Result()[0] != 9 {
		t.Errorf("Update did not change byte 0: %v", scratch.Result())
	}

	if since := scratch.DataSince(3); len(since) != 2 || since[0] != 4 {
		t.Errorf("DataSince(3) = %v, expected [4 5]", since)
	}
	if since := scratch.DataSince(10); since != nil {
		t.Errorf("DataSince past end = %v, expected nil", since)
	}

	if scratch.Free() != MessageMax-5 {
		t.Errorf("Free() = %d, expected %d", scratch.Free(), MessageMax-5)
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 || len(scratch.Result()) != 0 {
		t.Errorf("Reset left position %d", scratch.CurPosition())
	}
}

func TestScratchOutputOverflow(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, MessageMax+10))

	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position capped at %d, got %d", MessageMax, scratch.CurPosition())
	}
	if scratch.Free() != 0 {
		t.Errorf("Free() = %d, expected 0", scratch.Free())
	}
}
