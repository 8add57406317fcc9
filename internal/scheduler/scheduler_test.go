package scheduler_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballpit/internal/scheduler"
)

var _ = Describe("Scheduler", func() {
	var (
		frames int
		s      *scheduler.Scheduler
	)

	BeforeEach(func() {
		frames = 0
		s = scheduler.New(func() { frames++ })
	})

	It("starts stopped with nothing pending", func() {
		Expect(s.Running()).To(BeFalse())
		Expect(s.Pending()).To(BeFalse())
		Expect(s.Ticks()).To(BeZero())
	})

	It("requests the first tick on start", func() {
		Expect(s.Start()).To(BeTrue())
		Expect(s.Running()).To(BeTrue())
		Expect(s.Pending()).To(BeTrue())
	})

	It("does not request twice when started twice", func() {
		Expect(s.Start()).To(BeTrue())
		Expect(s.Start()).To(BeFalse())
	})

	It("re-arms after every tick while running", func() {
		s.Start()
		for i := 0; i < 5; i++ {
			Expect(s.Tick()).To(BeTrue())
		}
		Expect(frames).To(Equal(5))
		Expect(s.Pending()).To(BeTrue())
	})

	It("lets the in-flight tick run once after stop", func() {
		s.Start()
		s.Stop()

		Expect(s.Running()).To(BeFalse())
		Expect(s.Pending()).To(BeTrue())

		Expect(s.Tick()).To(BeFalse())
		Expect(frames).To(Equal(1))
		Expect(s.Pending()).To(BeFalse())
	})

	It("keeps a single loop across a quick leave and enter", func() {
		s.Start()
		s.Stop()
		Expect(s.Start()).To(BeFalse(), "the pending tick already covers the restart")

		Expect(s.Tick()).To(BeTrue())
		Expect(s.Pending()).To(BeTrue())
	})

	It("requests again after a full stop", func() {
		s.Start()
		s.Stop()
		s.Tick()

		Expect(s.Start()).To(BeTrue())
	})

	It("stops from inside a frame", func() {
		s = scheduler.New(func() {
			frames++
			if frames == 3 {
				s.Stop()
			}
		})
		s.Start()
		for s.Pending() {
			s.Tick()
		}
		Expect(frames).To(Equal(3))
	})

	Describe("Loop", func() {
		It("runs until the frame stops the scheduler", func() {
			s = scheduler.New(func() {
				frames++
				if frames == 4 {
					s.Stop()
				}
			})

			err := scheduler.Loop(context.Background(), s, time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(4))
			Expect(s.Ticks()).To(BeEquivalentTo(4))
		})

		It("returns the context error on cancel", func() {
			ctx, cancel := context.WithCancel(context.Background())
			s = scheduler.New(func() {
				frames++
				if frames == 2 {
					cancel()
				}
			})

			err := scheduler.Loop(ctx, s, time.Millisecond)
			Expect(err).To(MatchError(context.Canceled))
			Expect(s.Running()).To(BeFalse())
		})
	})
})
