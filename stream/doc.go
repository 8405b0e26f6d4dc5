// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stream provides synchronous multicast publish/subscribe primitives.
//
// Four variants share one subscription model and differ only in what they retain:
//
//   - [Trigger]: no retained value, every publish reaches the current subscribers.
//   - [FlushOnce]: like [Trigger] but the subscriber set is cleared after each publish.
//   - [Latch]: accepts exactly one publish and replays it to every subscriber, past or future.
//   - [Observable]: retains the last distinct value and replays it to new subscribers.
//
// # Handlers
//
// A [Handler] is the identity of a subscribed callback. A handler remembers every
// stream it is registered on so [Handler.Off] can sever all of its subscriptions at
// once. [Scope] groups handlers owned by a single party.
//
//	ping := stream.NewTrigger[int]()
//	h := ping.On(func(n int) { fmt.Println("got", n) })
//	ping.Publish(1)
//	h.Off()
//	ping.Publish(2) // nothing printed
//
// # Dispatch
//
// Dispatch is synchronous and happens in subscription order over a snapshot of the
// subscriber set taken before the first callback runs. Handlers added or removed by a
// callback only affect later publishes. A panicking subscriber propagates to the
// publisher and the remaining subscribers of that pass are not invoked.
//
// Streams are not safe for concurrent use.
package stream
