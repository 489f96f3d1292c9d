package clientsync

import "sync"

// ModalMode is what the article modal is currently showing.
type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
	ModalCitation
)

// Modal is the modal state. Target is the article id for ModalEdit and ModalCitation.
type Modal struct {
	Mode   ModalMode
	Target string
}

// ViewState is transient presentation state for one Store.
// It is never persisted and never sent to the server.
type ViewState struct {
	mu       sync.Mutex
	openMenu string
	modal    Modal
	shown    map[string]bool
}

func newViewState() *ViewState {
	return &ViewState{shown: make(map[string]bool)}
}

// ToggleMenu opens the menu of id, or closes it when it is already open.
// At most one menu is open at a time.
func (v *ViewState) ToggleMenu(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.openMenu == id {
		v.openMenu = ""
		return
	}
	v.openMenu = id
}

func (v *ViewState) CloseMenu() {
	v.mu.Lock()
	v.openMenu = ""
	v.mu.Unlock()
}

// OpenMenu returns the id whose menu is open, or "".
func (v *ViewState) OpenMenu() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.openMenu
}

// OpenModal shows the modal and closes any open menu.
func (v *ViewState) OpenModal(mode ModalMode, target string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modal = Modal{Mode: mode, Target: target}
	v.openMenu = ""
}

func (v *ViewState) CloseModal() {
	v.mu.Lock()
	v.modal = Modal{}
	v.mu.Unlock()
}

func (v *ViewState) Modal() Modal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal
}

// ToggleCitations flips the citation visibility of an article and returns the new value.
func (v *ViewState) ToggleCitations(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shown[id] {
		delete(v.shown, id)
		return false
	}
	v.shown[id] = true
	return true
}

func (v *ViewState) CitationsVisible(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shown[id]
}

// Forget drops every piece of state that refers to id.
func (v *ViewState) Forget(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.openMenu == id {
		v.openMenu = ""
	}
	if v.modal.Target == id {
		v.modal = Modal{}
	}
	delete(v.shown, id)
}
