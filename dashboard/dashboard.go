// Package dashboard renders a live terminal view of a running simulation:
// per-family predictor accuracy and the most recently retired
// instructions. It is the batch-simulator analogue of the teacher's
// debugger/tui.go panel layout, built on the same tcell/tview pair, but
// with no breakpoints or single-stepping since this simulator has no
// interactive debugger (spec §1 Non-goals).
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"rv32sim/disasm"
	"rv32sim/predictor"
	"rv32sim/vm"
)

// traceDepth bounds how many recent instructions the trace panel keeps.
const traceDepth = 200

// refreshInterval is how often the dashboard redraws while the
// simulation is running.
const refreshInterval = 100 * time.Millisecond

// Dashboard is a live tview application showing one VM's progress.
type Dashboard struct {
	app    *tview.Application
	layout *tview.Flex

	predictorView *tview.TextView
	traceView     *tview.TextView
	statusView    *tview.TextView

	machine *vm.VM
	trace   []string
}

// New builds a Dashboard bound to machine. The VM is not started; call
// Run to drive it to completion while the dashboard refreshes.
func New(machine *vm.VM) *Dashboard {
	d := &Dashboard{
		app:     tview.NewApplication(),
		machine: machine,
		trace:   make([]string, 0, traceDepth),
	}
	d.initializeViews()
	d.buildLayout()
	return d
}

func (d *Dashboard) initializeViews() {
	d.predictorView = tview.NewTextView().SetDynamicColors(true)
	d.predictorView.SetBorder(true).SetTitle(" Predictors ")

	d.traceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	d.traceView.SetBorder(true).SetTitle(" Trace ")

	d.statusView = tview.NewTextView().SetDynamicColors(true)
	d.statusView.SetBorder(true).SetTitle(" Status ")
}

func (d *Dashboard) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.statusView, 5, 0, false).
		AddItem(d.predictorView, 0, 1, false)

	d.layout = tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(d.traceView, 0, 2, false)

	d.app.SetRoot(d.layout, true)
}

// Run steps machine to completion (or fault) on a background goroutine,
// redrawing the dashboard every refreshInterval, then exits the tview
// event loop once the VM halts. It blocks until the user quits (Ctrl-C)
// or the simulation finishes.
func (d *Dashboard) Run() error {
	done := make(chan error, 1)

	go func() {
		done <- d.driveVM()
	}()

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			d.app.QueueUpdateDraw(d.redraw)
		}
	}()

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			d.app.Stop()
			return nil
		}
		return event
	})

	go func() {
		<-done
		d.app.QueueUpdateDraw(d.redraw)
	}()

	return d.app.Run()
}

func (d *Dashboard) driveVM() error {
	defer d.app.Stop()

	m := d.machine
	m.State = vm.StateRunning
	for m.State == vm.StateRunning {
		pc := m.CPU.PC
		word, ferr := m.Memory.ReadWord(pc)
		if ferr == nil {
			line := disasm.Disassemble(pc, word)
			d.pushTrace(fmt.Sprintf("%08x: %s", pc, line))
		}
		if err := m.Step(); err != nil {
			return err
		}
		if uint64(len(m.InstructionLog)) >= m.MaxInstructions {
			m.State = vm.StateHalted
			return fmt.Errorf("maximum instruction count exceeded (%d)", m.MaxInstructions)
		}
	}
	return nil
}

func (d *Dashboard) pushTrace(line string) {
	if len(d.trace) >= traceDepth {
		d.trace = d.trace[1:]
	}
	d.trace = append(d.trace, line)
}

func (d *Dashboard) redraw() {
	d.statusView.SetText(fmt.Sprintf("state: %s\ninsns: %d\npc: 0x%08x",
		d.machine.State, d.machine.CPU.Cycles, d.machine.CPU.PC))

	report := d.machine.Predictors.Report()
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %10s\n", "nt", rate(report.NT))
	fmt.Fprintf(&b, "%-14s %10s\n", "btfnt", rate(report.BTFNT))
	for _, s := range report.Bimodal {
		fmt.Fprintf(&b, "%-14s %10s\n", "bimodal-"+strconv.Itoa(s.Size), rate(s.Stat))
	}
	for _, s := range report.Gshare {
		fmt.Fprintf(&b, "%-14s %10s\n", "gshare-"+strconv.Itoa(s.Size), rate(s.Stat))
	}
	d.predictorView.SetText(b.String())

	d.traceView.SetText(strings.Join(d.trace, "\n"))
}

func rate(s predictor.Stat) string {
	return fmt.Sprintf("%.2f%%", s.MispredictRate()*100)
}
