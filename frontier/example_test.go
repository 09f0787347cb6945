package frontier_test

import (
	"fmt"

	"github.com/katalvlaran/questopt/frontier"
)

// ExampleBounded shows capacity-bound admission: the worst item is evicted
// only by a strictly better one.
func ExampleBounded() {
	f, _ := frontier.New(2, func(a, b int) bool { return a < b })
	f.Insert(5)
	f.Insert(3)
	fmt.Println(f.Insert(9)) // worse than everything: dropped
	fmt.Println(f.Insert(1)) // evicts 5

	for {
		v, ok := f.TakeBest()
		if !ok {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// false
	// true
	// 1
	// 3
}
