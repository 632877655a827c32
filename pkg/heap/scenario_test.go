package heap_test

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kelsin/heapsim/pkg/heap"
	"github.com/kelsin/heapsim/pkg/heap/heaptest"
)

func TestSequentialFill(t *testing.T) {
	Convey("Given a fresh heap under FIRST", t, func() {
		h := heaptest.Small()
		h.SetStrategy(heap.FIRST)

		Convey("When allocating 1000 blocks of 64 bytes", func() {
			ptrs := make([]*byte, 1000)
			for i := range ptrs {
				ptrs[i] = h.Allocate(64)

				Convey("Then each allocation succeeds and alloc_count tracks the iteration", func() {
					So(ptrs[i], ShouldNotBeNil)
					So(h.AllocCount(), ShouldEqual, i+1)
				})
			}

			Convey("And freeing all of them in reverse order", func() {
				for i := len(ptrs) - 1; i >= 0; i-- {
					h.Free(ptrs[i])
				}

				Convey("Then alloc_count is zero and exactly one free block remains", func() {
					So(h.AllocCount(), ShouldEqual, 0)
					So(h.FreeBlockCount(), ShouldEqual, 1)
				})
			})
		})
	})
}

func TestCheckerboardCoalesce(t *testing.T) {
	Convey("Given a heap with 100 allocated 64-byte blocks", t, func() {
		h := heaptest.Small()
		ptrs := heaptest.Fill(h, 100, 64)
		So(len(ptrs), ShouldEqual, 100)

		Convey("When freeing even-indexed blocks, then odd-indexed blocks", func() {
			for i := 0; i < len(ptrs); i += 2 {
				h.Free(ptrs[i])
			}
			for i := 1; i < len(ptrs); i += 2 {
				h.Free(ptrs[i])
			}

			Convey("Then exactly one free block remains", func() {
				So(h.FreeBlockCount(), ShouldEqual, 1)
				So(h.CheckIntegrity(), ShouldBeTrue)
			})
		})
	})
}

func TestBestFitSelectionScenario(t *testing.T) {
	Convey("Given a heap with a 400-byte hole and a smaller 250-byte hole separated by a spacer", t, func() {
		h := heaptest.Small()

		hole400 := h.Allocate(400)
		spacer := h.Allocate(16)
		hole250 := h.Allocate(250)
		h.Free(hole400)
		h.Free(hole250)

		Convey("When allocating 200 bytes under BEST", func() {
			h.SetStrategy(heap.BEST)
			p := h.Allocate(200)

			Convey("Then the chosen block is the smallest hole that fits", func() {
				So(p, ShouldNotBeNil)
				So(p, ShouldEqual, hole250)
			})
		})

		_ = spacer
	})
}

func TestWorstFitSelectionScenario(t *testing.T) {
	Convey("Given a heap with holes of 200, 400, 600 and 200 bytes separated by spacers", t, func() {
		h := heaptest.Small()

		s1 := h.Allocate(16)
		hole200a := h.Allocate(200)
		s2 := h.Allocate(16)
		hole400 := h.Allocate(400)
		s3 := h.Allocate(16)
		hole600 := h.Allocate(600)
		s4 := h.Allocate(16)
		hole200b := h.Allocate(200)

		h.Free(hole200a)
		h.Free(hole400)
		h.Free(hole600)
		h.Free(hole200b)

		Convey("When allocating 100 bytes under WORST", func() {
			h.SetStrategy(heap.WORST)
			p := h.Allocate(100)

			Convey("Then the chosen block lies in the 600-byte hole", func() {
				So(p, ShouldNotBeNil)
				So(p, ShouldEqual, hole600)
			})
		})

		_, _, _, _ = s1, s2, s3, s4
	})
}

func TestInPlaceGrowScenario(t *testing.T) {
	Convey("Given an allocated 100-byte block followed by a freed adjacent block", t, func() {
		h := heaptest.Small()

		p := h.Allocate(100)
		next := h.Allocate(200)
		h.Free(next)

		pattern := make([]byte, 100)
		for i := range pattern {
			pattern[i] = byte(i)
		}
		copy(unsafe.Slice(p, 100), pattern)

		Convey("When resizing the first block to 250 bytes", func() {
			grown := h.Resize(p, 250)

			Convey("Then the original payload address is returned", func() {
				So(grown, ShouldEqual, p)
			})

			Convey("And the first 100 bytes of content are preserved", func() {
				So(unsafe.Slice(grown, 100), ShouldResemble, pattern)
			})
		})
	})
}

func TestRelocatingResizeScenario(t *testing.T) {
	Convey("Given three adjacent allocations P, Q, R", t, func() {
		h := heaptest.Small()

		p := h.Allocate(100)
		q := h.Allocate(100)
		r := h.Allocate(500)

		fill := make([]byte, 100)
		for i := range fill {
			fill[i] = 'A'
		}
		copy(unsafe.Slice(p, 100), fill)

		Convey("When resizing P to 400 bytes", func() {
			grown := h.Resize(p, 400)

			Convey("Then the new payload address differs from the old one", func() {
				So(grown, ShouldNotEqual, p)
			})

			Convey("And the first 100 bytes equal the original content", func() {
				So(unsafe.Slice(grown, 100), ShouldResemble, fill)
			})
		})

		_, _ = q, r
	})
}
