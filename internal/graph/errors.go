package graph

import "fmt"

// Direction distinguishes the two sides of a component when reporting
// channel-related errors.
type Direction string

// Direction constants for channel data flow.
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// DuplicateNameError is returned by AddComponent when the component name is
// already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("component name already in use: %s", e.Name)
}

// UnknownChannelError is returned by AddEdge when an endpoint names a channel
// the component does not declare.
type UnknownChannelError struct {
	Component string
	Channel   string
	Direction Direction
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("component %s has no %s named %s", e.Component, e.Direction, e.Channel)
}

// AmbiguousEdgeError is returned by AddSimpleEdge when an endpoint does not
// have exactly one channel to pick.
type AmbiguousEdgeError struct {
	Component string
	Direction Direction
	Count     int
}

func (e *AmbiguousEdgeError) Error() string {
	return fmt.Sprintf("component %s has %d %ss, expected exactly one", e.Component, e.Count, e.Direction)
}

// CycleError is returned by AddEdge when the edge would make the graph
// cyclic. The offending edge is not inserted.
type CycleError struct {
	From string
	To   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("edge %s -> %s would create a cycle", e.From, e.To)
}

// InvalidChannelError is returned by AddComponent when a channel declaration
// is rejected at the boundary: a kind that does not fit the direction, or a
// second stdin/stdout channel on the same component.
type InvalidChannelError struct {
	Component string
	Channel   string
	Reason    string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("component %s, channel %s: %s", e.Component, e.Channel, e.Reason)
}
