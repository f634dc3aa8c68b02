package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"landfunnel/internal/output"
	"landfunnel/internal/pipeline"
	"landfunnel/internal/reference"
	"landfunnel/internal/types"
)

// browse lets the user pick a stage, then a parcel of that stage, and shows
// how the parcel will look in the verification workbook and the CRM file.
func browse(res *pipeline.Result, provinces *reference.Lookup) {
	restore := enableVT()
	defer restore()

	stageLines := make([]string, len(types.Stages))
	for i, s := range types.Stages {
		stageLines[i] = fmt.Sprintf("%-10s %6d parcels", s, len(res.Stage(s)))
	}

	interactiveSelect(stageLines, false, func(i int) {
		stage := types.Stages[i]
		recs := res.Stage(stage)
		if len(recs) == 0 {
			fmt.Printf("No %s parcels.\n", stage)
			waitForEnter()
			return
		}
		lines := make([]string, len(recs))
		for j, r := range recs {
			lines[j] = parcelLine(r, stage)
		}
		interactiveSelect(lines, true, func(j int) {
			renderParcel(os.Stdout, recs[j], stage, provinces)
		})
	})
}

// interactiveSelect lets the user move through lines with the arrow keys
// and press Enter to run onEnter for the highlighted line. With pause set,
// the user confirms with Enter before the list is redrawn.
func interactiveSelect(lines []string, pause bool, onEnter func(int)) {
	if len(lines) == 0 {
		return
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("(interactive selection not supported on this terminal)")
		return
	}
	defer func() {
		if oldState != nil {
			term.Restore(fd, oldState)
		}
	}()

	reader := bufio.NewReader(os.Stdin)
	selected := 0

	redraw := func() {
		fmt.Print("\033[H\033[2J")
		for i, l := range lines {
			prefix := "  "
			if i == selected {
				prefix = "> "
			}
			// Raw mode does not translate \n.
			fmt.Print(prefix + l + "\r\n")
		}
		fmt.Print("(↑/↓ to navigate, Enter to open, Esc to go back)\r\n")
	}

	up := func() {
		if selected > 0 {
			selected--
			redraw()
		}
	}
	down := func() {
		if selected < len(lines)-1 {
			selected++
			redraw()
		}
	}
	enter := func() bool {
		term.Restore(fd, oldState)
		fmt.Println()
		onEnter(selected)
		if pause {
			waitForEnter()
		}
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return false
		}
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return true
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if err != nil {
			return
		}
		// Windows console arrow sequences: 0 or 224, then the key code.
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			switch b2 {
			case 72:
				up()
			case 80:
				down()
			case 13:
				if !enter() {
					return
				}
			}
			continue
		}

		switch b1 {
		case 27:
			if reader.Buffered() == 0 {
				fmt.Print("\r\n")
				return
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' || reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A':
				up()
			case 'B':
				down()
			}
		case '\r', '\n':
			if !enter() {
				return
			}
		case 3, 'q': // Ctrl-C
			fmt.Print("\r\n")
			return
		}
	}
}

func waitForEnter() {
	fmt.Print("\n(press Enter to return)")
	_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func parcelLine(r types.ResolvedParcel, stage types.Stage) string {
	line := fmt.Sprintf("%-32s %-10s", r.ExternalID, r.ParcelID)
	if stage == types.StageScouted {
		return line
	}
	name := strings.TrimSpace(r.OwnerLastName + " " + r.OwnerFirstName)
	if name == "" {
		name = "(no name)"
	}
	return fmt.Sprintf("%s %s (%d)", line, name, r.OwnerCount)
}

// renderParcel prints a record as the verification workbook holds it. A
// value the CRM file will carry differently follows in red brackets.
func renderParcel(w io.Writer, rec types.ResolvedParcel, stage types.Stage, provinces *reference.Lookup) {
	crm := output.MapToCSVRow(rec, stage)
	diff := func(verification, crmValue string) string {
		if verification != crmValue {
			return fmt.Sprintf(" %s[%s]%s", colorRed, crmValue, colorReset)
		}
		return ""
	}

	verified := fmt.Sprintf(" %s[Verified]%s", colorGreen, colorReset)
	if provinces != nil && !provinces.Resolve(rec.ProvinceRaw).Verified {
		verified = fmt.Sprintf(" %s[Unverified]%s", colorRed, colorReset)
	}

	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "Parcel ID         : %s\n", rec.ParcelID)
	fmt.Fprintf(w, "External ID       : %s%s\n", rec.ExternalID, diff(rec.ExternalID, crm.ExternalID))
	fmt.Fprintf(w, "Province          : %s (%s) %s%s\n", rec.ProvinceName, rec.ProvinceCode, rec.Region, verified)
	fmt.Fprintf(w, "Municipality      : %s\n", rec.Municipality)
	fmt.Fprintf(w, "Sez/Fg/Part       : %s / %s / %s\n", rec.Section, rec.Sheet, rec.Number)
	fmt.Fprintf(w, "Area (Ha)         : %s%s\n", rec.Area, diff(rec.Area, crm.Area))
	fmt.Fprintln(w)

	if stage == types.StageScouted {
		fmt.Fprintf(w, "CP                : %s\n", rec.PostalCode)
		fmt.Fprintf(w, "CRM owner         : %s\n", crm.LastName)
		fmt.Fprintln(w, strings.Repeat("-", 80))
		return
	}

	fmt.Fprintf(w, "Owner             : %s %s%s\n", rec.OwnerFirstName, rec.OwnerLastName,
		diff(strings.TrimSpace(rec.OwnerFirstName+" "+rec.OwnerLastName), strings.TrimSpace(crm.FirstName+" "+crm.LastName)))
	fmt.Fprintf(w, "Fiscal Code       : %s\n", rec.FiscalCode)
	fmt.Fprintf(w, "Email             : %s\n", rec.Email)
	fmt.Fprintf(w, "CP                : %s%s\n", rec.PostalCode, diff(rec.PostalCode, crm.PostalCode))
	fmt.Fprintf(w, "Owners            : %d\n", rec.OwnerCount)
	fmt.Fprintf(w, "All Owners        : %s\n", rec.AllOwners)
	if crm.AllOwners != rec.AllOwners {
		fmt.Fprintf(w, "  CRM             : %s%s%s\n", colorRed, crm.AllOwners, colorReset)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
}
