package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// watchedRootProperties change when clients appear, disappear or take
// focus, or when panels reserve space.
var watchedRootProperties = map[string]bool{
	"_NET_CLIENT_LIST":   true,
	"_NET_ACTIVE_WINDOW": true,
	"_NET_WORKAREA":      true,
}

// WatchClientList calls fn from the event loop whenever the client list,
// active window or work area changes on the root window.
func (c *Connection) WatchClientList(fn func()) error {
	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || !watchedRootProperties[name] {
			return
		}
		fn()
	}).Connect(c.XUtil, c.Root)
	return nil
}
