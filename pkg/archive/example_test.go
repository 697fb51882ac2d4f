package archive_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mshar/pkg/archive"
)

func ExampleBuilder_BuildStrict() {
	fs := memfs.New()
	if err := util.WriteFile(fs, "greeting.txt", []byte("Hi"), 0o644); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	b := archive.New(archive.WithFileSystem(fs))
	text, err := b.BuildStrict(context.Background(), "", "", []string{"greeting.txt"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "TEKTONE='") || strings.HasPrefix(line, "printf '") {
			fmt.Println(line)
		}
	}

	// Output:
	// TEKTONE='greeting.txt';
	// printf 'SGk=' > "./$TEKTONE";
}

func ExampleBuilder_BuildLenient() {
	fs := memfs.New()
	_ = util.WriteFile(fs, "present.txt", []byte("here"), 0o644)

	b := archive.New(archive.WithFileSystem(fs))
	paths := []string{"absent.txt", "present.txt"}

	_, err := b.BuildStrict(context.Background(), "", "", paths)
	fmt.Println("strict file error:", errors.Is(err, archive.ErrFile))

	text, err := b.BuildLenient(context.Background(), "", "", paths)
	fmt.Println("lenient error:", err)
	fmt.Println("mentions absent.txt:", strings.Contains(text, "absent.txt"))

	// Output:
	// strict file error: true
	// lenient error: <nil>
	// mentions absent.txt: false
}
