package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
)

func testMenu(calls *[]string, errs map[string]error) *Menu {
	action := func(name string) func(context.Context) error {
		return func(context.Context) error {
			*calls = append(*calls, name)
			return errs[name]
		}
	}
	return &Menu{
		Title: "ТЕСТ",
		Items: []MenuItem{
			{Label: "първа", Action: action("first")},
			{Label: "втора", Action: action("second")},
		},
	}
}

func TestMenuRun_DispatchAndExit(t *testing.T) {
	var calls []string
	menu := testMenu(&calls, nil)

	var out strings.Builder
	in := strings.NewReader("2\n1\n0\n")
	if err := menu.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.Join(calls, ","); got != "second,first" {
		t.Errorf("calls = %q, want %q", got, "second,first")
	}
	if !strings.Contains(out.String(), "Довиждане!") {
		t.Error("exit message not printed")
	}
}

func TestMenuRun_InvalidChoice(t *testing.T) {
	var calls []string
	menu := testMenu(&calls, nil)

	var out strings.Builder
	in := strings.NewReader("9\nабв\n0\n")
	if err := menu.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if strings.Count(out.String(), "Невалиден избор!") != 2 {
		t.Errorf("expected two rejections, output:\n%s", out.String())
	}
}

func TestMenuRun_AbortedOperationKeepsLooping(t *testing.T) {
	var calls []string
	menu := testMenu(&calls, map[string]error{"first": database.ErrAborted})

	var out strings.Builder
	in := strings.NewReader("1\n2\n0\n")
	if err := menu.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Join(calls, ","); got != "first,second" {
		t.Errorf("calls = %q, want %q", got, "first,second")
	}
	if !strings.Contains(out.String(), "Операцията е отменена.") {
		t.Error("cancellation message not printed")
	}
}

func TestMenuRun_ErrorIsReportedNotFatal(t *testing.T) {
	var calls []string
	menu := testMenu(&calls, map[string]error{"first": errors.New("boom")})

	var out strings.Builder
	in := strings.NewReader("1\n0\n")
	if err := menu.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Грешка: boom") {
		t.Errorf("error not reported, output:\n%s", out.String())
	}
}

func TestMenuRun_EOFExits(t *testing.T) {
	var calls []string
	menu := testMenu(&calls, nil)

	var out strings.Builder
	if err := menu.Run(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
