// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"slices"
)

// Parent returns the parent of c or nil.
func (c *Instance) Parent() *Instance {
	return c.parent
}

// Children returns the children of c in attach order.
func (c *Instance) Children() []*Instance {
	return slices.Clone(c.children)
}

// AttachTo makes p the parent of c, detaching c from its current parent.
// A nil p detaches c.
func (c *Instance) AttachTo(p *Instance) error {
	if p == c {
		return c.lifecycleErr("attach", ErrSelfAttach)
	}
	if p != nil {
		if c.state == Destroyed || p.state == Destroying || p.state == Destroyed {
			return c.lifecycleErr("attach", ErrAlreadyDestroyed)
		}
		for a := p.parent; a != nil; a = a.parent {
			if a == c {
				return c.lifecycleErr("attach", ErrCyclicAttach)
			}
		}
	}
	if c.parent == p {
		return nil
	}

	c.Detach()
	if p != nil {
		c.parent = p
		p.children = append(p.children, c)
	}
	return nil
}

// Detach removes c from its parent.
func (c *Instance) Detach() {
	if c.parent == nil {
		return
	}
	c.parent.remove(c)
	c.parent = nil
}

// Attach attaches every child to c. It stops at the first child which
// cannot be attached.
func (c *Instance) Attach(children ...*Instance) error {
	for _, child := range children {
		err := child.AttachTo(c)
		if err != nil {
			return err
		}
	}
	return nil
}

// DetachAll detaches every child of c.
func (c *Instance) DetachAll() {
	for _, child := range c.children {
		child.parent = nil
	}
	c.children = nil
}

func (c *Instance) remove(child *Instance) {
	i := slices.Index(c.children, child)
	if i < 0 {
		return
	}
	c.children = slices.Delete(c.children, i, i+1)
}
