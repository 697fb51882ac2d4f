package b64_test

import (
	"fmt"

	"github.com/walteh/mshar/pkg/b64"
)

func ExampleEncode() {
	for _, in := range []string{"Hi", "Hi!", "Hi!!", ""} {
		out, err := b64.Encode([]byte(in))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("%q -> %q\n", in, out)
	}

	// Output:
	// "Hi" -> "SGk="
	// "Hi!" -> "SGkh"
	// "Hi!!" -> "SGkhIQ=="
	// "" -> ""
}
