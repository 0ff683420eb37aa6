package chip8

import "testing"

func TestDrawSpriteSetsCollisionOnErase(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.I = 0x600
	m.Memory[0x600] = 0xFF // one row, all 8 pixels lit
	m.V[0], m.V[1] = 0, 0

	writeOpcodes(m, 0xD011) // draw 8x1 sprite at (V0,V1)
	m.ExecuteInstruction()
	if m.V[0xF] != 0 {
		t.Fatalf("VF = %d after first draw onto a blank screen, want 0 (no collision)", m.V[0xF])
	}
	if m.Screen.At(0, 0) == 0 {
		t.Fatalf("pixel (0,0) not set after drawing")
	}

	// Drawing the identical sprite again XORs every lit pixel back off:
	// a genuine collision.
	m.PC -= 2
	m.ExecuteInstruction()
	if m.V[0xF] != 1 {
		t.Fatalf("VF = %d after re-drawing the same sprite, want 1 (collision)", m.V[0xF])
	}
	if m.Screen.At(0, 0) != 0 {
		t.Fatalf("pixel (0,0) still set after the erasing redraw")
	}
}

func TestSChip11CollisionCountsRows(t *testing.T) {
	m := newTestMachine(VariantSCHIP11)
	m.SetExecMode(Running)
	m.isHires = true // SCHIP11 collision counting only applies to h>8 sprites
	m.I = 0x600
	for i := 0; i < 32; i++ { // 16 rows x 2 bytes/row for a 16-wide sprite
		m.Memory[0x600+i] = 0xFF
	}
	m.V[0], m.V[1] = 0, 0

	writeOpcodes(m, 0xD010) // n=0 -> 16x16 sprite in hires mode
	m.ExecuteInstruction()
	if m.V[0xF] != 0 {
		t.Fatalf("VF = %d on first draw, want 0", m.V[0xF])
	}

	m.PC -= 2
	m.ExecuteInstruction()
	// Every one of the 16 rows collides on the redraw.
	if m.V[0xF] != 16 {
		t.Fatalf("VF = %d after full-overlap redraw, want 16 (SCHIP-1.1 row count)", m.V[0xF])
	}
}

func TestScrollDownMovesPixelsWithinPlane(t *testing.T) {
	m := newTestMachine(VariantSCHIP11)
	m.isHires = true
	m.Screen.Set(5, 5, 1)
	writeOpcodes(m, 0x00C2) // scroll down 2 (hires: n rows directly)
	m.ExecuteInstruction()
	if m.Screen.At(5, 7) != 1 {
		t.Fatalf("pixel did not move to (5,7) after scrolling down 2 rows")
	}
	if m.Screen.At(5, 5) != 0 {
		t.Fatalf("source pixel (5,5) still set after scroll")
	}
}

func TestWrapSpritesWrapsAtScreenEdge(t *testing.T) {
	m := newTestMachine(VariantXOChip) // WrapSprites is set for XO-CHIP
	m.I = 0x600
	m.Memory[0x600] = 0x01 // single bit, rightmost column of the byte (col 7)
	m.V[0] = byte(m.Screen.Width - 1)
	m.V[1] = 0

	writeOpcodes(m, 0xD011)
	m.ExecuteInstruction()
	// In lores the origin Width-1 (127) reduces to 63 on the 64-wide
	// logical screen; the bit at col 7 lands at 70, which must wrap
	// around to column 6 instead of clipping off the right edge.
	wantX := (m.Screen.Width - 1 + 7) % m.Screen.Width
	if m.Screen.PlaneBit(wantX, 0, 0) == 0 {
		t.Fatalf("sprite bit did not wrap onto column %d", wantX)
	}
}
