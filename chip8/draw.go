package chip8

// This file is the Draw Unit from spec §4.3: the parameterized sprite
// blitter (planar/multi-plane, wrap/clip, lores/hires, SCHIP
// collision, MEGACHIP compositing) and the scroll opcode family. Only
// the display-wait choice is made at dispatch-table build time
// (installDxyn in dispatch.go); opDrawSprite reads the other draw
// quirks from Properties on every draw, and its per-pixel loop tests
// the wrap flag.

// spriteDim returns the sprite width/height for a Dxyn with the given
// n, honoring the n=0 "16x16 sprite" special case and its lores
// variations, per spec §4.3.
func (m *Machine) spriteDim(n byte) (width, height int) {
	if n != 0 {
		return 8, int(n)
	}
	if m.isHires {
		return 16, 16
	}
	switch m.props.Quirks.LoresDxy0Width {
	case LoresDxy0Width16:
		return 16, 16
	default:
		return 8, 16
	}
}

// opDrawSpriteDisplayWait implements the historical display-wait
// behavior from spec §4.3: the draw happens now (there is no separate
// "next frame" state to simulate correctness of later opcodes against)
// but the instruction is charged the rest of the current frame's
// cycle budget, modeling a COSMAC VIP/CHIP-48 CPU that blocks until
// the next video retrace once it issues a draw. ExecuteFrame checks
// frameConsumed after every dispatch and, if set, ends the frame there
// without running the rest of its instruction budget; the cycle
// counter only counts instructions actually executed.
func opDrawSpriteDisplayWait(m *Machine, opcode uint16) {
	opDrawSprite(m, opcode)
	m.frameConsumed = true
}

// opDrawSprite implements Dxyn inline (the InstantDxyn path, and the
// body of the display-wait path).
func opDrawSprite(m *Machine, opcode uint16) {
	if m.isMegaChipMode {
		opDrawSpriteMegaChip(m, opcode)
		return
	}

	// Per spec §4.3, the sprite origin wraps into the logical screen
	// before anything else happens, regardless of whether WrapSprites
	// is set: a clip-mode ROM that sets Vx>=W still expects the origin
	// itself to land on-screen and only individual out-of-bounds pixels
	// to clip, not the whole sprite.
	logicalW, logicalH := m.currentScreenSize()
	x := int(m.V[opX(opcode)]) % logicalW
	y := int(m.V[opY(opcode)]) % logicalH
	n := opN(opcode)
	w, h := m.spriteDim(n)

	scale := 1
	if !m.isHires && m.props.Quirks.SCLoresDrawing && m.props.Quirks.AllowHires {
		scale = 2
	}

	screenW, screenH := logicalW*scale, logicalH*scale
	wrap := m.props.Quirks.WrapSprites
	bytesPerRow := w / 8
	planes := m.activePlanes()

	collisionRows := 0
	clippedRows := 0
	anyErase := false

	for row := 0; row < h; row++ {
		rowErased := false

		// A row is "clipped off the bottom" if, unscaled and before
		// wrapping, its target y falls outside the screen.
		if !wrap && (y+row)*scale >= screenH {
			clippedRows++
			continue
		}

		for pi, p := range planes {
			base := m.I + uint32(pi)*uint32(h*bytesPerRow) + uint32(row)*uint32(bytesPerRow)
			var bits uint32
			for b := 0; b < bytesPerRow; b++ {
				bits = bits<<8 | uint32(m.readByte((base+uint32(b))&m.AddressMask()))
			}
			for col := 0; col < w; col++ {
				bit := byte((bits >> uint(w-1-col)) & 1)
				if bit == 0 {
					continue
				}
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						tx := x*scale + col*scale + sx
						ty := y*scale + row*scale + sy
						if wrap {
							tx = ((tx % screenW) + screenW) % screenW
							ty = ((ty % screenH) + screenH) % screenH
						} else if tx < 0 || tx >= screenW || ty < 0 || ty >= screenH {
							continue
						}
						if m.Screen.XorPlaneBit(tx, ty, p, 1) {
							rowErased = true
							anyErase = true
						}
					}
				}
			}
		}
		if rowErased {
			collisionRows++
		}
	}

	if m.props.Quirks.SChip11Collision && h > 8 {
		m.V[0xF] = byte(collisionRows + clippedRows)
	} else if anyErase {
		m.V[0xF] = 1
	} else {
		m.V[0xF] = 0
	}

	m.Host.UpdateScreen()
}

// activePlanes returns the plane indices (0-3) selected by the current
// plane mask; drawing with planes==0 is a documented no-op (spec
// invariant 4) but still costs the cycle that dispatched it.
func (m *Machine) activePlanes() []int {
	if m.planes == 0 {
		return nil
	}
	var out []int
	for p := 0; p < 4; p++ {
		if m.planes&(1<<uint(p)) != 0 {
			out = append(out, p)
		}
	}
	return out
}

// opDrawSpriteMegaChip implements the MEGACHIP Dxyn branch from spec
// §4.3: a monochrome XOR blit for I < 0x100 (the ROM font path, into
// bit 0 of both the planar Screen and the indexed MegaWork plane), or
// otherwise an indexed-color bitmap whose nonzero palette indices are
// copied into MegaWork. BlendMode is not applied here; megaSwapScreens
// applies it when it resolves the present plane to RGBA.
func opDrawSpriteMegaChip(m *Machine, opcode uint16) {
	x := int(m.V[opX(opcode)])
	y := int(m.V[opY(opcode)])
	n := opN(opcode)

	if m.I < 0x100 {
		w, h := m.spriteDim(n)
		for row := 0; row < h; row++ {
			line := m.readByte(m.I + uint32(row))
			for col := 0; col < 8 && col < w; col++ {
				bit := (line >> uint(7-col)) & 1
				if bit == 0 {
					continue
				}
				tx, ty := x+col, y+row
				if tx < 0 || ty < 0 || tx >= m.MegaWork.Width || ty >= m.MegaWork.Height {
					continue
				}
				m.MegaWork.XorPlaneBit(tx, ty, 0, 1)
				m.Screen.XorPlaneBit(tx, ty, 0, 1)
			}
		}
		m.Host.UpdateScreen()
		return
	}

	collision := false
	for row := 0; row < m.spriteHeight; row++ {
		for col := 0; col < m.spriteWidth; col++ {
			src := m.readByte(m.I + uint32(row*m.spriteWidth+col))
			if src == 0 {
				continue
			}
			tx, ty := x+col, y+row
			if tx < 0 || ty < 0 || tx >= m.MegaWork.Width || ty >= m.MegaWork.Height {
				continue
			}
			dst := m.MegaWork.At(tx, ty)
			if dst == m.collisionColor {
				collision = true
			}
			m.MegaWork.Set(tx, ty, src)
		}
	}
	if collision {
		m.V[0xF] = 1
	} else {
		m.V[0xF] = 0
	}
	m.Host.UpdateScreen()
}

// compositeRGBA performs alpha/add/mul blending in RGBA space, used
// when presenting the work plane's indexed pixels (resolved through
// mcPalette) onto a host-visible RGBA surface. Kept in RGBA space
// rather than index space so the work plane always holds a replayable
// palette index regardless of the blend mode in effect at present
// time.
func compositeRGBA(mode BlendMode, src, dst RGBA) RGBA {
	switch mode {
	case BlendAlpha25:
		return blendAlpha(src, dst, 0.25)
	case BlendAlpha50:
		return blendAlpha(src, dst, 0.50)
	case BlendAlpha75:
		return blendAlpha(src, dst, 0.75)
	case BlendAdd:
		return RGBA{addClamp(dst.R, src.R), addClamp(dst.G, src.G), addClamp(dst.B, src.B), 0xFF}
	case BlendMul:
		return RGBA{mulByte(dst.R, src.R), mulByte(dst.G, src.G), mulByte(dst.B, src.B), 0xFF}
	default:
		return src
	}
}

func blendAlpha(src, dst RGBA, a float64) RGBA {
	lerp := func(s, d byte) byte {
		return byte(float64(s)*a + float64(d)*(1-a))
	}
	return RGBA{lerp(src.R, dst.R), lerp(src.G, dst.G), lerp(src.B, dst.B), 0xFF}
}

func addClamp(a, b byte) byte {
	v := int(a) + int(b)
	if v > 255 {
		return 255
	}
	return byte(v)
}

func mulByte(a, b byte) byte {
	return byte(int(a) * int(b) / 255)
}

// --- scroll opcode family ---------------------------------------------------

// scrollRows converts an opcode's raw n nibble into a row count,
// doubling in lores mode unless half-pixel-scroll is in effect, per
// spec §4.3.
func scrollRows(m *Machine, n int) int {
	if !m.isHires && !m.props.Quirks.HalfPixelScroll {
		return n * 2
	}
	return n
}

func opScrollDown(m *Machine, opcode uint16) {
	n := int(opN(opcode))
	if m.isMegaChipMode {
		m.MegaWork.ScrollDown(n, 0xFF)
		m.Host.UpdateScreen()
		return
	}
	m.Screen.ScrollDown(scrollRows(m, n), m.planes)
}

func opScrollUp(m *Machine, opcode uint16) {
	n := int(opN(opcode))
	if m.isMegaChipMode {
		m.MegaWork.ScrollUp(n, 0xFF)
		m.Host.UpdateScreen()
		return
	}
	m.Screen.ScrollUp(scrollRows(m, n), m.planes)
}

func opScrollRight(m *Machine, opcode uint16) {
	n := 4
	if !m.isHires && !m.props.Quirks.HalfPixelScroll {
		n = 8
	}
	if m.isMegaChipMode {
		m.MegaWork.ScrollRight(4, 0xFF)
		m.Host.UpdateScreen()
		return
	}
	m.Screen.ScrollRight(n, m.planes)
}

func opScrollLeft(m *Machine, opcode uint16) {
	n := 4
	if !m.isHires && !m.props.Quirks.HalfPixelScroll {
		n = 8
	}
	if m.isMegaChipMode {
		m.MegaWork.ScrollLeft(4, 0xFF)
		m.Host.UpdateScreen()
		return
	}
	m.Screen.ScrollLeft(n, m.planes)
}

// opScrollDownMasked/opScrollUpMasked/opScrollRightMasked/
// opScrollLeftMasked are the XO-CHIP plane-aware variants (original
// op00Cn_masked &c.): they move individual plane bits rather than
// whole bytes, so a scroll with planes==0b10 leaves plane 0 untouched.
func opScrollDownMasked(m *Machine, opcode uint16) {
	n := int(opN(opcode))
	m.Screen.ScrollDown(scrollRows(m, n), m.planes)
}

func opScrollUpMasked(m *Machine, opcode uint16) {
	n := int(opN(opcode))
	m.Screen.ScrollUp(scrollRows(m, n), m.planes)
}

func opScrollRightMasked(m *Machine, opcode uint16) {
	n := 4
	if !m.isHires && !m.props.Quirks.HalfPixelScroll {
		n = 8
	}
	m.Screen.ScrollRight(n, m.planes)
}

func opScrollLeftMasked(m *Machine, opcode uint16) {
	n := 4
	if !m.isHires && !m.props.Quirks.HalfPixelScroll {
		n = 8
	}
	m.Screen.ScrollLeft(n, m.planes)
}
