// Package pages contains page objects for the Melosys screens the suite drives.
// Each page object wraps DOM lookups behind intent-named methods so the
// scenarios read as user workflows rather than selector plumbing.
package pages

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// base holds the shared element helpers used by every page object.
type base struct {
	page    *rod.Page
	timeout time.Duration
	log     logrus.FieldLogger
}

func newBase(log logrus.FieldLogger, page *rod.Page, timeout time.Duration, name string) base {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return base{
		page:    page,
		timeout: timeout,
		log:     log.WithField("page", name),
	}
}

// element waits for a visible element matching selector.
func (b *base) element(selector string) (*rod.Element, error) {
	el, err := b.page.Timeout(b.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("finding %q: %w", selector, err)
	}

	if err := el.Timeout(b.timeout).WaitVisible(); err != nil {
		return nil, fmt.Errorf("waiting for %q to become visible: %w", selector, err)
	}

	return el, nil
}

// click clicks the element matching selector.
func (b *base) click(selector string) error {
	el, err := b.element(selector)
	if err != nil {
		return err
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %q: %w", selector, err)
	}

	b.log.WithField("selector", selector).Debug("clicked")

	return nil
}

// clickByText clicks the element matching selector whose text matches pattern.
func (b *base) clickByText(selector, pattern string) error {
	el, err := b.page.Timeout(b.timeout).ElementR(selector, pattern)
	if err != nil {
		return fmt.Errorf("finding %q with text %q: %w", selector, pattern, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %q with text %q: %w", selector, pattern, err)
	}

	return nil
}

// fill clears the input matching selector and types value.
func (b *base) fill(selector, value string) error {
	el, err := b.element(selector)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("selecting text in %q: %w", selector, err)
	}

	if err := el.Input(value); err != nil {
		return fmt.Errorf("filling %q: %w", selector, err)
	}

	return nil
}

// selectOption picks an option from a native select by visible text.
func (b *base) selectOption(selector, label string) error {
	el, err := b.element(selector)
	if err != nil {
		return err
	}

	if err := el.Select([]string{label}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("selecting %q in %q: %w", label, selector, err)
	}

	return nil
}

// text returns the text content of the element matching selector.
func (b *base) text(selector string) (string, error) {
	el, err := b.element(selector)
	if err != nil {
		return "", err
	}

	content, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("reading text of %q: %w", selector, err)
	}

	return content, nil
}

// waitGone waits for selector to disappear, used for spinners and overlays.
func (b *base) waitGone(selector string) error {
	if err := b.page.Timeout(b.timeout).WaitElementsMoreThan(selector, 0); err != nil {
		// Never appeared, nothing to wait out.
		return nil //nolint:nilerr // absence is the desired state
	}

	el, err := b.page.Timeout(b.timeout).Element(selector)
	if err != nil {
		return nil //nolint:nilerr // raced to removal
	}

	if err := el.Timeout(b.timeout).WaitInvisible(); err != nil {
		return fmt.Errorf("waiting for %q to disappear: %w", selector, err)
	}

	return nil
}
