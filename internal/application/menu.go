// Package application holds the console surface: the menu tree the operator
// drives and the loop dispatching its actions.
package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/service"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label  string
	Action func(ctx context.Context) error
}

type Menu struct {
	Title string
	Items []MenuItem
}

// BuildMenu wires the operator menu over the service operations.
func BuildMenu(svc *service.Service) *Menu {
	return &Menu{
		Title: "MICROINVEST INVOICE PRO - ИМПОРТ/ЕКСПОРТ",
		Items: []MenuItem{
			{Label: "Експорт на стоки от SQL към Excel", Action: func(ctx context.Context) error {
				_, err := svc.ExportItems(ctx)
				return err
			}},
			{Label: "Експорт на партньори от SQL към Excel", Action: func(ctx context.Context) error {
				_, err := svc.ExportPartners(ctx)
				return err
			}},
			{Label: "Импорт на стоки от Excel към SQL", Action: func(ctx context.Context) error {
				_, err := svc.ImportItems(ctx)
				return err
			}},
			{Label: "Импорт на партньори от Excel към SQL", Action: func(ctx context.Context) error {
				_, err := svc.ImportPartners(ctx)
				return err
			}},
			{Label: "Конвертиране на Warehouse Pro партньори за импорт", Action: func(ctx context.Context) error {
				_, err := svc.ConvertWarehousePartners()
				return err
			}},
			{Label: "Смяна на база данни", Action: svc.ChangeDatabase},
		},
	}
}

/* ----------------------------------------
	MENU LOOP
---------------------------------------- */

// Run drives the menu until the operator exits or ctx is cancelled. A
// cancelled operation is reported and the menu continues; other errors are
// printed and the menu continues too, so one failed run never kills the
// session.
func (m *Menu) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "   %s\n", m.Title)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		for i, item := range m.Items {
			fmt.Fprintf(out, "%2d. %s\n", i+1, item.Label)
		}
		fmt.Fprintln(out, " 0. Изход")
		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Изберете опция (0-%d): ", len(m.Items))

		if !scanner.Scan() {
			return nil
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			continue
		}
		if choice == "0" {
			fmt.Fprintln(out, "Довиждане!")
			return nil
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(m.Items) {
			fmt.Fprintln(out, "Невалиден избор!")
			continue
		}

		switch err := m.Items[idx-1].Action(ctx); {
		case err == nil:
		case errors.Is(err, database.ErrAborted):
			fmt.Fprintln(out, "Операцията е отменена.")
		case errors.Is(err, context.Canceled):
			return err
		default:
			fmt.Fprintf(out, "Грешка: %v\n", err)
		}
	}
}
