package ir

import (
	"encoding/json"
	"fmt"
)

type jsonNode struct {
	Name  string      `json:"name,omitempty"`
	Value *string     `json:"value,omitempty"`
	Props []*jsonNode `json:"props,omitempty"`
	Items []*jsonNode `json:"items,omitempty"`
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON(t.Root()))
}

func (t *Tree) toJSON(id NodeID) *jsonNode {
	res := &jsonNode{Name: t.Name(id)}
	if v, ok := t.Value(id); ok {
		res.Value = &v
	}
	for _, p := range t.Properties(id) {
		res.Props = append(res.Props, t.toJSON(p))
	}
	for _, o := range t.Objects(id) {
		res.Items = append(res.Items, t.toJSON(o))
	}
	return res
}

func (t *Tree) UnmarshalJSON(d []byte) error {
	jn := &jsonNode{}
	if err := json.Unmarshal(d, jn); err != nil {
		return err
	}
	*t = *New()
	if err := t.fromJSON(t.Root(), jn); err != nil {
		return err
	}
	return t.Reindex()
}

func (t *Tree) fromJSON(id NodeID, jn *jsonNode) error {
	if jn.Value != nil {
		t.SetValue(id, *jn.Value)
	}
	for _, p := range jn.Props {
		if p == nil || p.Name == "" {
			return fmt.Errorf("property of %s has no name", t.Path(id))
		}
		if err := t.fromJSON(t.SetProperty(id, p.Name), p); err != nil {
			return err
		}
	}
	for _, o := range jn.Items {
		if o == nil {
			o = &jsonNode{}
		}
		if err := t.fromJSON(t.AddObject(id), o); err != nil {
			return err
		}
	}
	return nil
}
