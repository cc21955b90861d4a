package output

// Bus is the in-process signal channel between the sync core and the
// presentation layer, replacing ambient DOM event dispatch. Publish never
// blocks; slow subscribers coalesce signals instead of queueing them.
type Bus interface {
	Publish(topic string)
	// Subscribe returns a signal channel for topic and an unsubscribe func.
	Subscribe(topic string) (<-chan string, func())
}
