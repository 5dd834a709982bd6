package raw_test

import (
	"fmt"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/raw"
	"github.com/joshuapare/slotkit/storage"
)

func ExampleVec() {
	counting := alloc.NewCounting(alloc.Heap{})
	v, err := raw.NewVec[uint32, storage.AllocHandle](storage.NewAlloc(counting))
	if err != nil {
		panic(err)
	}

	for used := range 10 {
		if err := v.Reserve(used, 1); err != nil {
			panic(err)
		}
		s, err := v.Slice()
		if err != nil {
			panic(err)
		}
		s[used] = uint32(used * used)
	}

	s, _ := v.Slice()
	fmt.Println(v.Cap(), s[:10])

	_ = v.Close()
	fmt.Println("leaked:", counting.Stats().Leaked())
	// Output:
	// 16 [0 1 4 9 16 25 36 49 64 81]
	// leaked: false
}

func ExampleBox() {
	s := storage.NewSmall[[1]uint64](alloc.Heap{})
	b, err := raw.NewBox[uint64, storage.SmallHandle](s)
	if err != nil {
		panic(err)
	}
	defer b.Close()

	_ = b.Update(func(v *uint64) { *v = 1 << 40 })
	v, _ := b.Get()
	fmt.Println(v, b.Handle().Placement())
	// Output:
	// 1099511627776 inline
}
