package cascade

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

// Static errors for BDD assertions.
var (
	errWrongState       = errors.New("unexpected event state")
	errNotRefused       = errors.New("declaration was not refused")
	errRefused          = errors.New("declaration was refused")
	errWrongHandlerRuns = errors.New("unexpected handler run count")
)

// propagationContext holds the engine under test for one scenario.
type propagationContext struct {
	engine     *Engine
	dispatcher *Dispatcher
	lastDecl   Event
	handlerRan int
}

func (c *propagationContext) aFreshEngine() error {
	c.dispatcher = NewDispatcher(nil, nil)
	c.engine = NewEngine(c.dispatcher, nil)
	c.handlerRan = 0
	return nil
}

func (c *propagationContext) requires(target, prev, state string) error {
	c.lastDecl = c.engine.SetPrev(target, map[string]bool{prev: state == "true"})
	if c.lastDecl == NoEvent {
		return fmt.Errorf("%w: %s on %s", errRefused, target, prev)
	}
	return nil
}

func (c *propagationContext) declares(target, prev, state string) error {
	c.lastDecl = c.engine.SetPrev(target, map[string]bool{prev: state == "true"})
	return nil
}

func (c *propagationContext) assertFact(name, state string) error {
	c.engine.SetState(StateFacts{name: state == "true"})
	return nil
}

func (c *propagationContext) shouldBe(name, state string) error {
	if c.engine.State(name) != (state == "true") {
		return fmt.Errorf("%w: %s is not %s", errWrongState, name, state)
	}
	return nil
}

func (c *propagationContext) declarationRefused() error {
	if c.lastDecl != NoEvent {
		return errNotRefused
	}
	return nil
}

func (c *propagationContext) countingHandler(name string) error {
	if c.engine.SetHandler(name, func() { c.handlerRan++ }) == NoEvent {
		return fmt.Errorf("%w: could not attach to %s", errWrongHandlerRuns, name)
	}
	return nil
}

func (c *propagationContext) dispatcherDrains() error {
	c.dispatcher.RunAll()
	return nil
}

func (c *propagationContext) handlerRanTimes(n int) error {
	if c.handlerRan != n {
		return fmt.Errorf("%w: got %d, want %d", errWrongHandlerRuns, c.handlerRan, n)
	}
	return nil
}

// InitializePropagationScenario wires the step definitions.
func InitializePropagationScenario(ctx *godog.ScenarioContext) {
	c := &propagationContext{}

	ctx.Step(`^a fresh engine$`, c.aFreshEngine)
	ctx.Step(`^"([^"]*)" requires "([^"]*)" to be "([^"]*)"$`, c.requires)
	ctx.Step(`^I declare that "([^"]*)" requires "([^"]*)" to be "([^"]*)"$`, c.declares)
	ctx.Step(`^I assert "([^"]*)" is "([^"]*)"$`, c.assertFact)
	ctx.Step(`^"([^"]*)" should be "([^"]*)"$`, c.shouldBe)
	ctx.Step(`^the declaration should be refused$`, c.declarationRefused)
	ctx.Step(`^a counting handler on "([^"]*)"$`, c.countingHandler)
	ctx.Step(`^the dispatcher drains$`, c.dispatcherDrains)
	ctx.Step(`^the handler should have run (\d+) times?$`, c.handlerRanTimes)
}

// TestPropagationScenarios runs the BDD suite for the propagation core.
func TestPropagationScenarios(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializePropagationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/propagation.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
