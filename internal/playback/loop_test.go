package playback_test

import (
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kinviz/kinviz/internal/playback"
	"github.com/kinviz/kinviz/internal/world"
)

func rampTrajectory(dofs, count int) *world.Trajectory {
	t := world.NewTrajectory(dofs, count)
	for i := 0; i < count; i++ {
		f := make(world.State, dofs)
		for d := range f {
			f[d] = float64(i)
		}
		t.SetFrame(i, f)
	}
	return t
}

var _ = Describe("Loop", func() {
	var loop *playback.Loop

	BeforeEach(func() {
		loop = &playback.Loop{}
	})

	It("is inactive and empty before a trajectory is set", func() {
		Expect(loop.Active()).To(BeFalse())
		_, ok := loop.Next()
		Expect(ok).To(BeFalse())
		Expect(loop.Len()).To(BeZero())
	})

	Describe("cursor advancement", func() {
		const n = 5

		BeforeEach(func() {
			loop.Set(rampTrajectory(2, n))
		})

		It("starts at frame 0", func() {
			f, ok := loop.Next()
			Expect(ok).To(BeTrue())
			Expect(f[0]).To(Equal(0.0))
		})

		It("wraps to 0 after exactly N ticks", func() {
			for i := 0; i < n; i++ {
				_, ok := loop.Next()
				Expect(ok).To(BeTrue())
			}
			Expect(loop.Cursor()).To(Equal(0))
		})

		It("sits at k after N+k ticks", func() {
			const k = 3
			for i := 0; i < n+k; i++ {
				loop.Next()
			}
			Expect(loop.Cursor()).To(Equal(k))
			f, _ := loop.Next()
			Expect(f[0]).To(Equal(float64(k)))
		})
	})

	Describe("Set", func() {
		It("resets the cursor when a new trajectory is installed", func() {
			loop.Set(rampTrajectory(1, 4))
			loop.Next()
			loop.Next()
			Expect(loop.Cursor()).To(Equal(2))

			loop.Set(rampTrajectory(1, 4))
			Expect(loop.Cursor()).To(Equal(0))
		})

		It("keeps a copy, not a view, of the caller's trajectory", func() {
			traj := rampTrajectory(1, 2)
			loop.Set(traj)
			traj.SetFrame(0, world.State{99})

			f, _ := loop.Next()
			Expect(f[0]).To(Equal(0.0))
		})

		It("serves whole frames of one trajectory across concurrent swaps", func() {
			mk := func(base float64, count int) *world.Trajectory {
				t := world.NewTrajectory(1, count)
				for i := 0; i < count; i++ {
					t.SetFrame(i, world.State{base + float64(i)})
				}
				return t
			}
			long := mk(100, 10)
			short := mk(200, 3)

			loop.Set(long)
			var bad atomic.Int64
			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 5000; i++ {
					f, ok := loop.Next()
					if !ok {
						continue
					}
					v := f[0]
					if !(v >= 100 && v < 110) && !(v >= 200 && v < 203) {
						bad.Add(1)
					}
				}
			}()
			for i := 0; i < 500; i++ {
				loop.Set(short)
				loop.Set(long)
			}
			<-done

			Expect(bad.Load()).To(BeZero())
		})

		It("recovers when a shorter trajectory replaces a longer one mid-loop", func() {
			loop.Set(rampTrajectory(1, 10))
			for i := 0; i < 7; i++ {
				loop.Next()
			}
			loop.Set(rampTrajectory(1, 3))

			f, ok := loop.Next()
			Expect(ok).To(BeTrue())
			Expect(f[0]).To(Equal(0.0))
		})
	})

	Describe("Stop and Resume", func() {
		It("stops without clearing the buffered trajectory", func() {
			loop.Set(rampTrajectory(1, 3))
			loop.Next()
			loop.Stop()

			_, ok := loop.Next()
			Expect(ok).To(BeFalse())
			Expect(loop.Len()).To(Equal(3))

			loop.Resume()
			f, ok := loop.Next()
			Expect(ok).To(BeTrue())
			Expect(f[0]).To(Equal(1.0))
		})

		It("ignores Resume when nothing was ever set", func() {
			loop.Resume()
			Expect(loop.Active()).To(BeFalse())
		})
	})
})

var _ = Describe("Ticker", func() {
	It("fires the callback repeatedly until stopped", func() {
		var ticks atomic.Int64
		tk := playback.NewTicker(time.Millisecond, func(time.Time) {
			ticks.Add(1)
		})

		tk.Start()
		Eventually(func() int64 { return ticks.Load() }).Should(BeNumerically(">=", 3))
		tk.Stop()

		after := ticks.Load()
		Consistently(func() int64 { return ticks.Load() }, 20*time.Millisecond).Should(Equal(after))
	})

	It("treats repeated Start and Stop as no-ops", func() {
		tk := playback.NewTicker(time.Millisecond, func(time.Time) {})

		tk.Stop() // never started
		tk.Start()
		tk.Start()
		Expect(tk.Running()).To(BeTrue())
		tk.Stop()
		tk.Stop()
		Expect(tk.Running()).To(BeFalse())
	})
})

var _ = Describe("RunFrames", func() {
	It("applies every frame once with offset save indices", func() {
		states := []world.State{{1}, {2}, {3}}
		var got []int
		err := playback.RunFrames(states, func(s world.State, saveIdx int) error {
			got = append(got, saveIdx)
			return nil
		}, 0, false, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]int{10, 11, 12}))
	})

	It("propagates the first apply error", func() {
		states := []world.State{{1}, {2}}
		calls := 0
		err := playback.RunFrames(states, func(world.State, int) error {
			calls++
			return errFrame
		}, 0, true, 0)

		Expect(err).To(MatchError(errFrame))
		Expect(calls).To(Equal(1))
	})
})

var errFrame = errors.New("frame apply failed")
