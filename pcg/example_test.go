package pcg_test

import (
	"fmt"

	"github.com/lox/pcgrand/pcg"
)

func ExampleNewPCG32() {
	rng := pcg.NewPCG32(42, 54)
	for i := 0; i < 3; i++ {
		fmt.Printf("%#x\n", rng.Next())
	}
	// Output:
	// 0xa15c02b7
	// 0x7b47f409
	// 0xba1d3330
}

func ExamplePCG32_Advance() {
	a := pcg.NewPCG32(42, 54)
	b := pcg.NewPCG32(42, 54)
	for i := 0; i < 1000; i++ {
		a.Next()
	}
	b.Advance(1000)
	fmt.Println(a.Next() == b.Next())
	// Output: true
}

func ExampleNewPCG64() {
	rng := pcg.NewPCG64(pcg.U128(42), pcg.U128(54))
	fmt.Printf("%#x\n", rng.Next())
	// Output: 0x86b1da1d72062b68
}
