package earmark

import "github.com/FocuswithJustin/earmark/core/errors"

// SetUserData attaches value to it under key. A nil value removes the key.
// The data is dropped when the item is removed.
func (d *Document) SetUserData(it Item, key string, value any) error {
	if !d.owns(it) {
		return errors.NewWrongDocument("setUserData", itemID(it))
	}
	id := it.ID()
	if value == nil {
		delete(d.userData[id], key)
		if len(d.userData[id]) == 0 {
			delete(d.userData, id)
		}
		return nil
	}
	data, ok := d.userData[id]
	if !ok {
		data = make(map[string]any)
		d.userData[id] = data
	}
	data[key] = value
	return nil
}

// UserData returns the value attached to it under key.
func (d *Document) UserData(it Item, key string) (any, bool) {
	if !d.owns(it) {
		return nil, false
	}
	v, ok := d.userData[it.ID()][key]
	return v, ok
}

func itemID(it Item) string {
	if it == nil {
		return ""
	}
	return it.ID()
}
