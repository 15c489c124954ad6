package atomic_float

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicAdd(t *testing.T) {
	Convey("When AtomicAdd is called", t, func() {
		Convey("When multiple writers add to the float value concurrently", func() {
			f64 := float64(0.0)
			numOps := 3000
			numWriters := 200

			start := make(chan struct{})
			wg := sync.WaitGroup{}
			wg.Add(numWriters)
			adder := func() {
				<-start
				for i := 0; i < numOps; i++ {
					AtomicAdd(&f64, 1.0)
				}
				wg.Done()
			}

			for i := 0; i < numWriters; i++ {
				go adder()
			}

			// Wait for goroutines to begin
			time.Sleep(time.Millisecond * 10)
			close(start)
			wg.Wait()
			So(AtomicRead(&f64), ShouldEqual, float64(numOps*numWriters))
		})

		Convey("When multiple writers increment and decrement the float value concurrently", func() {
			f64 := float64(0.0)
			numOps := 3000
			numWriters := 200

			start := make(chan struct{})
			wg := sync.WaitGroup{}
			wg.Add(numWriters * 2)
			worker := func(addend float64) {
				<-start
				for i := 0; i < numOps; i++ {
					AtomicAdd(&f64, addend)
				}
				wg.Done()
			}

			for i := 0; i < numWriters; i++ {
				go worker(1.0)
				go worker(-1.0)
			}

			time.Sleep(time.Millisecond * 10)
			close(start)
			wg.Wait()
			So(AtomicRead(&f64), ShouldEqual, float64(0.0))
		})
	})
}

func TestAtomicMax(t *testing.T) {
	Convey("When AtomicMax is called", t, func() {
		Convey("Smaller candidates leave the value unchanged", func() {
			f64 := 5.0
			So(AtomicMax(&f64, 2.0), ShouldEqual, 5.0)
			So(AtomicMax(&f64, 7.5), ShouldEqual, 7.5)
			So(f64, ShouldEqual, 7.5)
		})

		Convey("When many writers race to raise the maximum", func() {
			f64 := float64(0.0)
			numWriters := 100

			start := make(chan struct{})
			wg := sync.WaitGroup{}
			wg.Add(numWriters)
			for i := 0; i < numWriters; i++ {
				go func(id int) {
					<-start
					for j := 0; j < 1000; j++ {
						AtomicMax(&f64, float64(id*1000+j))
					}
					wg.Done()
				}(i)
			}

			close(start)
			wg.Wait()
			So(AtomicRead(&f64), ShouldEqual, float64((numWriters-1)*1000+999))
		})

		Convey("AtomicSet overwrites unconditionally", func() {
			f64 := 3.0
			AtomicSet(&f64, -1.0)
			So(AtomicRead(&f64), ShouldEqual, -1.0)
		})
	})
}
