// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lifecycle

import (
	"context"
	"errors"
	"fmt"
)

func ExampleSequence() {
	one := Sync(func(ctx context.Context, name string) error {
		fmt.Println("one", name)
		return nil
	})

	var resume Done
	two := Async(func(ctx context.Context, name string, done Done) {
		fmt.Println("two", name, "suspended")
		resume = done
	})

	three := Sync(func(ctx context.Context, name string) error {
		fmt.Println("three", name)
		return nil
	})

	Sequence(one, two, three).Run(context.Background(), "db", func(err error) {
		fmt.Println("done", err)
	})
	resume(nil)

	// Output: one db
	// two db suspended
	// three db
	// done <nil>
}

func ExampleSequence_failFast() {
	oneErr := errors.New("one")
	one := Sync(func(ctx context.Context, _ int) error {
		return oneErr
	})

	two := Sync(func(ctx context.Context, _ int) error {
		fmt.Println("two")
		return nil
	})

	_, err := RunSync(context.Background(), Sequence(one, two), 0)
	fmt.Println(errors.Is(err, oneErr))

	// Output: true
}

func ExampleCompose() {
	oneErr := errors.New("one")
	one := Sync(func(ctx context.Context, _ int) error {
		return oneErr
	})

	twoErr := errors.New("two")
	two := Sync(func(ctx context.Context, _ int) error {
		fmt.Println("two")
		return twoErr
	})

	_, err := RunSync(context.Background(), Compose(one, two), 0)
	fmt.Println(errors.Is(err, oneErr), errors.Is(err, twoErr))

	// Output: two
	// true true
}
