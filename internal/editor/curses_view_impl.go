package editor

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

// Page names for tview.Pages
const (
	pageTable   = "table"
	pageChanges = "changes"
	pageHelp    = "help"

	pageMain    = "main"
	pageDialog  = "dialog"
	pageConfirm = "confirm"
)

// CursesEditorViewImpl implements EditorViewImpl using tview
type CursesEditorViewImpl struct {
	logger     *log.Logger
	app        *tview.Application
	model      *EditorModel
	controller *EditorController

	mu          sync.Mutex
	currentMode EditorMode
	state       State
	session     Session

	// root holds the main layout with dialogs stacked on top
	root  *tview.Pages
	pages *tview.Pages // one page per mode

	// Shared components
	logView   *tview.TextView
	statusBar *tview.TextView
	mainFlex  *tview.Flex

	// Table mode
	tableFlex       *tview.Flex
	grid            *tview.Table
	gridCadences    []int // row i+1 shows gridCadences[i]
	gridPowers      []int // column j+1 shows gridPowers[j]
	tableTabWidgets []tview.Primitive

	// Changes mode
	changesFlex       *tview.Flex
	changesView       *tview.TextView
	violationsView    *tview.TextView
	changesTabWidgets []tview.Primitive

	// Help mode
	helpView *tview.TextView
}

func NewCursesEditorView(logger *log.Logger, app *tview.Application, model *EditorModel) *CursesEditorViewImpl {
	return &CursesEditorViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: ModeTable,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesEditorViewImpl) Initialize(controller *EditorController) {
	ui.controller = controller

	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.statusBar = tview.NewTextView().
		SetDynamicColors(true)

	ui.pages = tview.NewPages()
	ui.initTableMode(controller)
	ui.initChangesMode()
	ui.initHelpMode()

	ui.pages.AddPage(pageTable, ui.tableFlex, true, true)
	ui.pages.AddPage(pageChanges, ui.changesFlex, true, false)
	ui.pages.AddPage(pageHelp, ui.helpView, true, false)

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.statusBar, 1, 0, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(left, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.root = tview.NewPages().
		AddPage(pageMain, ui.mainFlex, true, true)

	ui.setFocusForCurrentMode()
}

func (ui *CursesEditorViewImpl) initTableMode(controller *EditorController) {
	instructions := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructions.SetText("[yellow]a[white] Add  |  [yellow]Enter[white] Edit  |  [yellow]x[white] Delete  |  [yellow]+/-[white] Drag  |  [yellow]l[white] Active line  |  [yellow]o[white] Original\n" +
		"[yellow]f[white] Fill  |  [yellow]r[white] Resolve  |  [yellow]m[white] Smooth  |  [yellow]u/y[white] Undo/Redo  |  [yellow]s[white] Save  |  [yellow]?[white] Help")

	ui.grid = tview.NewTable().
		SetFixed(1, 1).
		SetSelectable(true, true).
		SetSelectedFunc(func(row, column int) {
			if cell, ok := ui.cellAt(row, column); ok {
				ui.showEditForm(cell)
			}
		})
	ui.grid.SetBorder(true).SetTitle(" Table ")

	ui.tableTabWidgets = append(ui.tableTabWidgets, ui.grid, ui.logView)

	ui.tableFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(ui.grid, 0, 1, true)
}

func (ui *CursesEditorViewImpl) initChangesMode() {
	ui.changesView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	ui.changesView.SetBorder(true).SetTitle(" Changes from original ")

	ui.violationsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	ui.violationsView.SetBorder(true).SetTitle(" Violations ")

	ui.changesTabWidgets = append(ui.changesTabWidgets, ui.changesView, ui.violationsView)

	ui.changesFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.changesView, 0, 1, true).
		AddItem(ui.violationsView, 0, 1, false)
}

func (ui *CursesEditorViewImpl) initHelpMode() {
	ui.helpView = tview.NewTextView().
		SetDynamicColors(true)
	ui.helpView.SetBorder(true).SetTitle(" Keys ")

	var b strings.Builder
	b.WriteString("\n")
	for _, k := range KeyHelp {
		fmt.Fprintf(&b, "  [yellow]%-12s[white] %s\n", tview.Escape(k.Keys), k.Description)
	}
	b.WriteString("\n  [gray]Other keys: O open file, S save as, H max resistance, M storage multiplier, c export chart[white]\n")
	ui.helpView.SetText(b.String())
}

// SetMode switches the UI to the specified mode
func (ui *CursesEditorViewImpl) SetMode(mode EditorMode) {
	ui.mu.Lock()
	if ui.currentMode == mode {
		ui.mu.Unlock()
		return
	}
	ui.currentMode = mode
	ui.mu.Unlock()

	ui.app.QueueUpdateDraw(func() {
		switch mode {
		case ModeTable:
			ui.pages.SwitchToPage(pageTable)
		case ModeChanges:
			ui.pages.SwitchToPage(pageChanges)
		case ModeHelp:
			ui.pages.SwitchToPage(pageHelp)
		}
		ui.setFocusForCurrentMode()
	})
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesEditorViewImpl) GetCurrentMode() EditorMode {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.currentMode
}

func (ui *CursesEditorViewImpl) getTabWidgetsForCurrentMode() []tview.Primitive {
	switch ui.GetCurrentMode() {
	case ModeTable:
		return ui.tableTabWidgets
	case ModeChanges:
		return ui.changesTabWidgets
	case ModeHelp:
		return []tview.Primitive{ui.helpView}
	default:
		return nil
	}
}

// setFocusForCurrentMode sets focus to the first widget in the current mode
func (ui *CursesEditorViewImpl) setFocusForCurrentMode() {
	if widgets := ui.getTabWidgetsForCurrentMode(); len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// cellAt maps a grid position to a table cell. Header row and column have none.
func (ui *CursesEditorViewImpl) cellAt(row, column int) (Cell, bool) {
	if row < 1 || column < 1 || row > len(ui.gridCadences) || column > len(ui.gridPowers) {
		return Cell{}, false
	}
	return Cell{Cadence: ui.gridCadences[row-1], Power: ui.gridPowers[column-1]}, true
}

func (ui *CursesEditorViewImpl) selectedCell() (Cell, bool) {
	return ui.cellAt(ui.grid.GetSelection())
}

// dialogOpen reports whether a form or confirmation has the keyboard
func (ui *CursesEditorViewImpl) dialogOpen() bool {
	name, _ := ui.root.GetFrontPage()
	return name != pageMain
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesEditorViewImpl) SetupKeyboardHandlers(controller *EditorController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if ui.dialogOpen() {
			return event
		}

		switch event.Key() {
		case tcell.KeyTab:
			widgets := ui.getTabWidgetsForCurrentMode()
			for i, w := range widgets {
				if w.HasFocus() {
					ui.app.SetFocus(widgets[(i+1)%len(widgets)])
					break
				}
			}
			return nil
		case tcell.KeyEscape:
			controller.OnEscapeKey()
			return nil
		case tcell.KeyCtrlZ:
			controller.Undo()
			return nil
		case tcell.KeyCtrlY:
			controller.Redo()
			return nil
		}

		if event.Key() == tcell.KeyRune {
			if mode, ok := GetEditorModeByKey(event.Rune()); ok {
				controller.OnModeChange(mode)
				return nil
			}
			switch event.Rune() {
			case 'u':
				controller.Undo()
				return nil
			case 'y':
				controller.Redo()
				return nil
			case 's':
				if ui.model.GetPath() == "" {
					ui.showSaveAs()
				} else {
					controller.Save()
				}
				return nil
			case 'S':
				ui.showSaveAs()
				return nil
			case 'O':
				ui.showOpen()
				return nil
			case 'q':
				controller.Quit()
				return nil
			}
		}

		if ui.GetCurrentMode() == ModeTable {
			return ui.handleTableKey(controller, event)
		}
		return event
	})
}

func (ui *CursesEditorViewImpl) handleTableKey(controller *EditorController, event *tcell.EventKey) *tcell.EventKey {
	cell, onCell := ui.selectedCell()

	switch event.Key() {
	case tcell.KeyEnter:
		if ui.model.GetSession().Drag != nil {
			controller.EndDrag()
			return nil
		}
		return event
	case tcell.KeyDelete:
		if onCell {
			controller.DeletePoint(cell)
		}
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	nudge := 0
	switch event.Rune() {
	case 'a':
		ui.showAddForm(cell, onCell)
	case 'e':
		if onCell {
			ui.showEditForm(cell)
		}
	case 'x':
		if onCell {
			controller.DeletePoint(cell)
		}
	case 'l':
		if onCell {
			controller.SetActiveLine(cell.Cadence)
		}
	case 'f':
		controller.RequestSmartFill()
	case 'r':
		controller.RequestResolveConflicts()
	case 'm':
		controller.RequestSmartSmooth()
	case 'o':
		controller.ToggleOriginal()
	case 'H':
		ui.showMaxResistance()
	case 'M':
		ui.showStorageMultiplier()
	case 'c':
		ui.showExportChart()
	case '+', '=':
		nudge = NudgeStepSmall
	case '-':
		nudge = -NudgeStepSmall
	case '>':
		nudge = NudgeStepLarge
	case '<':
		nudge = -NudgeStepLarge
	default:
		return event
	}
	if nudge != 0 && onCell {
		controller.NudgeDrag(cell, nudge)
	}
	return nil
}

// --- Dialogs ---

// centered places p in the middle of the screen at a fixed size
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func (ui *CursesEditorViewImpl) showDialog(form *tview.Form, height int) {
	ui.root.AddPage(pageDialog, centered(form, 60, height), true, true)
	ui.app.SetFocus(form)
}

func (ui *CursesEditorViewImpl) closeDialog(name string) {
	ui.root.RemovePage(name)
	ui.setFocusForCurrentMode()
}

func inputText(form *tview.Form, label string) string {
	if field, ok := form.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}

// showInput asks for one value and passes it to submit. The dialog stays
// open while submit fails so the value can be corrected.
func (ui *CursesEditorViewImpl) showInput(title, label, initial string, submit func(string) error) {
	form := tview.NewForm().
		AddInputField(label, initial, 40, nil, nil)
	form.AddButton("OK", func() {
		if err := submit(inputText(form, label)); err == nil {
			ui.closeDialog(pageDialog)
		}
	}).
		AddButton("Cancel", func() { ui.closeDialog(pageDialog) }).
		SetCancelFunc(func() { ui.closeDialog(pageDialog) })
	form.SetBorder(true).SetTitle(" " + title + " ")
	ui.showDialog(form, 7)
}

func (ui *CursesEditorViewImpl) showAddForm(cell Cell, onCell bool) {
	cadence, power := "", ""
	if session := ui.model.GetSession(); session.HasActiveLine() {
		cadence = strconv.Itoa(session.ActiveCadence)
	} else if onCell {
		cadence = strconv.Itoa(cell.Cadence)
	}
	if onCell {
		power = strconv.Itoa(cell.Power)
	}

	snap := false
	form := tview.NewForm().
		AddInputField("Cadence (RPM)", cadence, 10, tview.InputFieldInteger, nil).
		AddInputField("Power (W)", power, 10, tview.InputFieldInteger, nil).
		AddInputField("Resistance", "", 10, tview.InputFieldInteger, nil).
		AddCheckbox("Snap to nearest column", false, func(checked bool) { snap = checked })
	form.AddButton("Add", func() {
		err := ui.controller.AddPoint(
			inputText(form, "Cadence (RPM)"),
			inputText(form, "Power (W)"),
			inputText(form, "Resistance"),
			snap,
		)
		if err == nil {
			ui.closeDialog(pageDialog)
		}
	}).
		AddButton("Cancel", func() { ui.closeDialog(pageDialog) }).
		SetCancelFunc(func() { ui.closeDialog(pageDialog) })
	form.SetBorder(true).SetTitle(" Add point ")
	ui.showDialog(form, 13)
}

func (ui *CursesEditorViewImpl) showEditForm(cell Cell) {
	if err := ui.controller.StartEdit(cell); err != nil {
		return
	}
	current, _ := ui.model.GetState().Table.Get(cell.Cadence, cell.Power)

	cancel := func() {
		ui.controller.CancelEdit()
		ui.closeDialog(pageDialog)
	}
	form := tview.NewForm().
		AddInputField("Resistance", strconv.Itoa(current), 10, tview.InputFieldInteger, nil)
	form.AddButton("Save", func() {
		if err := ui.controller.EditPoint(cell, inputText(form, "Resistance")); err == nil {
			ui.closeDialog(pageDialog)
		}
	}).
		AddButton("Cancel", cancel).
		SetCancelFunc(cancel)
	form.SetBorder(true).SetTitle(fmt.Sprintf(" Edit %d RPM @ %dW ", cell.Cadence, cell.Power))
	ui.showDialog(form, 7)
}

func (ui *CursesEditorViewImpl) showSaveAs() {
	initial := ui.model.GetPath()
	if initial == "" {
		initial = ui.model.GetState().Name
	}
	ui.showInput("Save as", "File", initial, ui.controller.SaveAs)
}

func (ui *CursesEditorViewImpl) showOpen() {
	initial := ""
	if recent := ui.model.GetRecentFiles(); len(recent) > 0 {
		initial = recent[0]
	}
	ui.showInput("Open", "File", initial, ui.controller.OpenFile)
}

func (ui *CursesEditorViewImpl) showMaxResistance() {
	current := strconv.Itoa(ui.model.GetState().Table.Config.MaxResistance)
	ui.showInput("Max resistance", "HMax", current, ui.controller.SetMaxResistance)
}

func (ui *CursesEditorViewImpl) showStorageMultiplier() {
	current := strconv.Itoa(ui.model.GetState().Table.Config.StorageMultiplier)
	ui.showInput("Storage multiplier", "Multiplier", current, ui.controller.SetStorageMultiplier)
}

func (ui *CursesEditorViewImpl) showExportChart() {
	name := ui.model.GetState().Name
	initial := strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	ui.showInput("Export chart (.png .svg .pdf .html)", "File", initial, ui.controller.ExportChart)
}

// ShowConfirm asks the user to confirm req
func (ui *CursesEditorViewImpl) ShowConfirm(req ConfirmRequest) {
	ui.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(req.Message).
			AddButtons([]string{"Yes", "No"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				ui.closeDialog(pageConfirm)
				if buttonLabel == "Yes" && req.OnConfirm != nil {
					req.OnConfirm()
				}
			})
		ui.root.AddPage(pageConfirm, modal, true, true)
		ui.app.SetFocus(modal)
	})
}

// --- State rendering ---

// UpdateState redraws everything that depends on the table
func (ui *CursesEditorViewImpl) UpdateState(state State) {
	ui.mu.Lock()
	ui.state = state
	ui.mu.Unlock()
	ui.app.QueueUpdateDraw(ui.render)
}

// UpdateSession redraws the table with the new session highlights
func (ui *CursesEditorViewImpl) UpdateSession(session Session) {
	ui.mu.Lock()
	ui.session = session
	ui.mu.Unlock()
	ui.app.QueueUpdateDraw(ui.render)
}

// UpdateStatus shows status in the status bar
func (ui *CursesEditorViewImpl) UpdateStatus(status Status) {
	ui.app.QueueUpdateDraw(func() {
		color := "white"
		switch status.Level {
		case StatusSuccess:
			color = "green"
		case StatusWarning:
			color = "yellow"
		case StatusError:
			color = "red"
		}
		ui.statusBar.SetText(fmt.Sprintf(" [%s]%s[white]", color, tview.Escape(status.Message)))
	})
}

func (ui *CursesEditorViewImpl) render() {
	ui.mu.Lock()
	state, session := ui.state, ui.session
	ui.mu.Unlock()
	if state.Table == nil {
		return
	}
	ui.renderGrid(state, session)
	ui.renderChanges(state)
}

func (ui *CursesEditorViewImpl) renderGrid(state State, session Session) {
	live := state.Table
	var original *powertable.Table
	if session.ShowOriginal && !state.Original.IsZero() {
		original = state.Original.Table()
	}

	cadences, powers := live.Cadences(), live.AllPowersUsed()
	if original != nil {
		cadences = mergeSorted(cadences, original.Cadences())
		powers = mergeSorted(powers, original.AllPowersUsed())
	}

	violating := make(map[Cell]bool)
	for _, v := range live.Violations() {
		violating[Cell{Cadence: v.Cadence, Power: v.Power}] = true
	}
	changes := make(map[Cell]powertable.Change)
	for _, ch := range powertable.Diff(state.Original.Table(), live) {
		changes[Cell{Cadence: ch.Cadence, Power: ch.Power}] = ch
	}

	selected, hadSelection := ui.selectedCell()

	ui.grid.Clear()
	ui.gridCadences, ui.gridPowers = cadences, powers

	ui.grid.SetCell(0, 0, tview.NewTableCell("RPM\\W").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
	for j, power := range powers {
		ui.grid.SetCell(0, j+1, tview.NewTableCell(fmt.Sprintf("%dW", power)).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignRight).
			SetSelectable(false))
	}

	for i, cadence := range cadences {
		label := tview.NewTableCell(fmt.Sprintf("  %d", cadence)).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		if cadence == session.ActiveCadence {
			label.SetText(fmt.Sprintf("> %d", cadence)).SetTextColor(tcell.ColorGreen)
		}
		ui.grid.SetCell(i+1, 0, label)

		for j, power := range powers {
			cell := Cell{Cadence: cadence, Power: power}
			ui.grid.SetCell(i+1, j+1, gridCell(live, cell, changes, violating, original != nil, session))
		}
	}

	if hadSelection {
		row, col := indexOf(cadences, selected.Cadence), indexOf(powers, selected.Power)
		if row >= 0 && col >= 0 {
			ui.grid.Select(row+1, col+1)
		}
	} else if len(cadences) > 0 && len(powers) > 0 {
		ui.grid.Select(1, 1)
	}

	dirty := ""
	if state.Dirty {
		dirty = "*"
	}
	ui.grid.SetTitle(fmt.Sprintf(" %s%s | %d lines, %d points | max %d | step %d/%d ",
		state.Name, dirty, live.LineCount(), live.Len(), live.Config.MaxResistance,
		state.HistoryCursor+1, state.HistoryLen))
}

func gridCell(live *powertable.Table, cell Cell, changes map[Cell]powertable.Change, violating map[Cell]bool, overlay bool, session Session) *tview.TableCell {
	text := "."
	color := tcell.ColorGray
	r, ok := live.Get(cell.Cadence, cell.Power)
	if ok {
		text = strconv.Itoa(r)
		color = tcell.ColorWhite
	}

	if ch, changed := changes[cell]; changed {
		color = tcell.ColorAqua
		if overlay {
			switch ch.Kind {
			case powertable.ChangeModified:
				text = fmt.Sprintf("%d (%d)", r, ch.Before)
			case powertable.ChangeRemoved:
				text = fmt.Sprintf("(%d)", ch.Before)
				color = tcell.ColorGray
			}
		}
	}
	if violating[cell] {
		color = tcell.ColorRed
	}

	tc := tview.NewTableCell(text).
		SetTextColor(color).
		SetAlign(tview.AlignRight)

	if session.Drag != nil && session.Drag.Cell == cell {
		tc.SetText(fmt.Sprintf("%d->%d", session.Drag.Start, session.Drag.Preview)).
			SetTextColor(tcell.ColorBlack).
			SetBackgroundColor(tcell.ColorFuchsia)
	} else if session.Editing != nil && *session.Editing == cell {
		tc.SetBackgroundColor(tcell.ColorDarkBlue)
	}
	return tc
}

func (ui *CursesEditorViewImpl) renderChanges(state State) {
	var b strings.Builder
	changes := powertable.Diff(state.Original.Table(), state.Table)
	if len(changes) == 0 {
		b.WriteString("\n  [gray]No changes[white]\n")
	}
	for _, ch := range changes {
		switch ch.Kind {
		case powertable.ChangeAdded:
			fmt.Fprintf(&b, "  [green]+[white] %d RPM @ %dW: %d\n", ch.Cadence, ch.Power, ch.After)
		case powertable.ChangeRemoved:
			fmt.Fprintf(&b, "  [red]-[white] %d RPM @ %dW: %d\n", ch.Cadence, ch.Power, ch.Before)
		default:
			fmt.Fprintf(&b, "  [aqua]~[white] %d RPM @ %dW: %d -> %d\n", ch.Cadence, ch.Power, ch.Before, ch.After)
		}
	}
	ui.changesView.SetText(b.String())

	b.Reset()
	violations := state.Table.Violations()
	if len(violations) == 0 {
		b.WriteString("\n  [green]Table is consistent[white]\n")
	}
	for _, v := range violations {
		fmt.Fprintf(&b, "  [red]%s[white] %s\n", v.Kind, tview.Escape(v.String()))
	}
	ui.violationsView.SetText(b.String())
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// --- Log view ---

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesEditorViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesEditorViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesEditorViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesEditorViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesEditorViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.root, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesEditorViewImpl) Stop() {
	ui.app.Stop()
}
