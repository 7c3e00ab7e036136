/*
Package events provides an in-process pub/sub broker for whale.

The resource package publishes removals, creations, reloads and
invalidations; the command runner publishes failed invocations. Consumers
subscribe to a buffered channel. A slow subscriber never blocks publishers:
when its buffer is full the event is dropped for that subscriber only.

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			fmt.Println(ev.Type, ev.Kind, ev.Target)
		}
	}()

Publishers accept the Publisher interface, and a nil Publisher means events
are not wanted.
*/
package events
