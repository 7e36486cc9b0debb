package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"usagelog/internal"
	"usagelog/internal/config"
	"usagelog/internal/pipeline"
	"usagelog/internal/registry"
	"usagelog/internal/sheetstore"
	"usagelog/internal/storage"
	"usagelog/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "master:sync":
		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		nEquip, nCompanies, err := registry.NewSyncService(db, st).Sync(ctx)
		must(err)
		fmt.Printf("master sync complete equipment=%d companies=%d\n", nEquip, nCompanies)

	case "log:append":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name (must match the registry)")
		purpose := fs.String("purpose", internal.PurposeTest, strings.Join(internal.Purposes, "|"))
		usageType := fs.String("usage-type", internal.UsageExternal, strings.Join(internal.UsageTypes, "|"))
		company := fs.String("company", "", "company name (auto-corrected to roster entry)")
		taxID := fs.String("tax-id", "", "company tax id")
		dept := fs.String("dept", "", "internal department (internal usage)")
		industry := fs.String("industry", "", "industry classification")
		item := fs.String("item", "", "industry item")
		subItem := fs.String("sub-item", "", "industry sub-item")
		product := fs.String("product", "", "product name")
		samples := fs.Int("samples", 0, "sample count")
		public := fs.Bool("public", false, "public disclosure flag")
		detail := fs.String("detail", "", "detail content")
		start := fs.String("start", "", "start date YYYY-MM-DD")
		end := fs.String("end", "", "end date YYYY-MM-DD")
		holidays := fs.Bool("holidays", false, "period includes holidays")
		hours := fs.Float64("hours", 0, "usage hours")
		fee := fs.Int("fee", 0, "fee")
		note := fs.String("note", "", "note")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *start == "" {
			must(fmt.Errorf("--equipment and --start are required"))
		}

		reg, err := registry.LoadEquipmentRegistry(db)
		must(err)
		info, ok := reg.Lookup(*equipment)
		if !ok {
			must(fmt.Errorf("unregistered equipment: %s", *equipment))
		}
		if *industry != "" {
			must(registry.ValidateClassification(*industry, *item, *subItem))
		}

		companyName, companyTaxID := *company, *taxID
		if *company != "" {
			idx, err := registry.LoadCompanyIndex(db)
			must(err)
			entry, ok := idx.Lookup(*company)
			if !ok {
				must(fmt.Errorf("unregistered company: %s", *company))
			}
			if entry.CanonicalName != companyName {
				fmt.Printf("company corrected: %s -> %s\n", companyName, entry.CanonicalName)
			}
			companyName, companyTaxID = entry.CanonicalName, entry.TaxID
		}

		cells := make([]string, internal.UsageColumnCount)
		cells[internal.ColPurpose] = *purpose
		cells[internal.ColUsageType] = *usageType
		cells[internal.ColCompanyName] = companyName
		cells[internal.ColCompanyTaxID] = companyTaxID
		cells[internal.ColInternalDept] = *dept
		cells[internal.ColIndustry] = *industry
		cells[internal.ColItem] = *item
		cells[internal.ColSubItem] = *subItem
		cells[internal.ColProductName] = *product
		cells[internal.ColSampleCount] = fmt.Sprintf("%d", *samples)
		cells[internal.ColPublicFlag] = yn(*public)
		cells[internal.ColDetailContent] = *detail
		cells[internal.ColEquipmentName] = info.Name
		cells[internal.ColEquipmentNo] = info.No
		cells[internal.ColEquipmentType] = info.Type
		cells[internal.ColStartDate] = util.CanonicalizeDate(*start)
		cells[internal.ColEndDate] = util.CanonicalizeDate(*end)
		cells[internal.ColIncludesHolidays] = yn(*holidays)
		cells[internal.ColUsageHours] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *hours), "0"), ".")
		cells[internal.ColFee] = fmt.Sprintf("%d", *fee)
		cells[internal.ColNote] = *note

		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		n, err := st.AppendUsageRows(ctx, info.Name, [][]string{cells})
		must(err)
		fmt.Printf("appended %d row to %s\n", n, info.Name)

	case "log:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		from := fs.String("from", "", "window start YYYY-MM-DD")
		to := fs.String("to", "", "window end YYYY-MM-DD")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" {
			must(fmt.Errorf("--equipment is required"))
		}

		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		rows, err := st.FetchUsageLogRows(ctx, *equipment)
		must(err)

		records := pipeline.ParseUsageRows(rows)
		start, end, filtered := parseWindow(*from, *to)
		count := 0
		for _, rec := range records {
			if filtered && (rec.StartDate.IsZero() || rec.StartDate.Before(start) || rec.StartDate.After(end)) {
				continue
			}
			count++
			fmt.Printf("row=%d %s %s company=%s hours=%s\n",
				rec.RowIndex, rec.StartDateRaw, rec.UsageType, rec.CompanyName, rec.UsageHoursRaw)
		}
		fmt.Printf("%d rows\n", count)

	case "log:update":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		row := fs.Int("row", 0, "row index from log:list")
		column := fs.String("col", "", "column name, e.g. usage_hours")
		value := fs.String("value", "", "new cell value")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *row < 2 || *column == "" {
			must(fmt.Errorf("--equipment, --row and --col are required"))
		}
		colIdx := -1
		for i, name := range internal.UsageColumns {
			if name == *column {
				colIdx = i
				break
			}
		}
		if colIdx < 0 {
			must(fmt.Errorf("unknown column: %s (see template:xlsx for names)", *column))
		}

		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		rows, err := st.FetchUsageLogRows(ctx, *equipment)
		must(err)
		var target *internal.RawUsageRow
		for i := range rows {
			if rows[i].RowIndex == *row {
				target = &rows[i]
				break
			}
		}
		if target == nil {
			must(fmt.Errorf("row %d not found; indices shift after mutations, re-run log:list", *row))
		}
		target.Cells[colIdx] = *value
		must(st.UpdateUsageRow(ctx, *equipment, *row, target.Cells))
		fmt.Printf("updated row=%d %s=%q\n", *row, *column, *value)

	case "log:delete":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		row := fs.Int("row", 0, "row index from log:list")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *row < 2 {
			must(fmt.Errorf("--equipment and --row are required"))
		}
		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		must(st.DeleteUsageRow(ctx, *equipment, *row))
		fmt.Printf("deleted row=%d; remaining indices have shifted\n", *row)

	case "maintenance:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		start := fs.String("start", "", "start date YYYY-MM-DD")
		end := fs.String("end", "", "end date YYYY-MM-DD")
		hours := fs.Float64("hours", 0, "downtime hours")
		content := fs.String("content", "", "work description")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *start == "" {
			must(fmt.Errorf("--equipment and --start are required"))
		}

		reg, err := registry.LoadEquipmentRegistry(db)
		must(err)
		if _, ok := reg.Lookup(*equipment); !ok {
			must(fmt.Errorf("unregistered equipment: %s", *equipment))
		}

		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		cells := []string{
			util.CanonicalizeDate(*start),
			util.CanonicalizeDate(*end),
			fmt.Sprintf("%g", *hours),
			*content,
		}
		must(st.AppendMaintenanceRow(ctx, *equipment, cells))
		fmt.Printf("maintenance recorded for %s: %s %gh\n", *equipment, cells[0], *hours)

	case "import:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "candidate file path")
		inType := fs.String("type", "xlsx", "xlsx|html")
		apply := fs.Bool("apply", false, "persist admitted rows; default is review only")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}

		reg, err := registry.LoadEquipmentRegistry(db)
		must(err)
		idx, err := registry.LoadCompanyIndex(db)
		must(err)
		st, err := sheetstore.Open(ctx, cfg)
		must(err)

		svc := pipeline.NewImportService(st, db, pipeline.NewImporter(reg, idx))
		review, applied, err := svc.Run(ctx, *inType, *input, *apply)
		must(err)

		for _, corr := range review.Corrections {
			fmt.Printf("row=%d corrected: %s -> %s\n", corr.RowNumber, corr.OriginalCompany, corr.CorrectedCompany)
		}
		for _, rowErr := range review.Errors {
			fmt.Printf("row=%d rejected: %s\n", rowErr.RowNumber, strings.Join(rowErr.Reasons, "; "))
		}
		fmt.Printf("review done admitted=%d rejected=%d corrections=%d\n",
			len(review.Admitted), len(review.Errors), len(review.Corrections))
		if *apply {
			for _, fail := range applied.Failures {
				fmt.Printf("group %s failed (%d rows): %s\n", fail.Equipment, fail.Rows, fail.Err)
			}
			fmt.Printf("apply done groups=%d persisted=%d\n", applied.Groups, applied.Persisted)
		}

	case "report:utilization":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		from := fs.String("from", "", "window start YYYY-MM-DD")
		to := fs.String("to", "", "window end YYYY-MM-DD")
		target := fs.Float64("target", cfg.DefaultTargetRate, "goal-seek target rate, percent")
		out := fs.String("out", "", "optional xlsx output path")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *from == "" || *to == "" {
			must(fmt.Errorf("--equipment, --from and --to are required"))
		}
		start, ok := util.ParseDate(*from)
		if !ok {
			must(fmt.Errorf("bad --from date: %s", *from))
		}
		end, ok := util.ParseDate(*to)
		if !ok {
			must(fmt.Errorf("bad --to date: %s", *to))
		}

		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		calc := pipeline.NewCalculator(cfg.CapacityHoursPerDay)
		report, err := pipeline.NewReportService(st, db, calc).Run(ctx, *equipment, start, end)
		must(err)

		printReport(report)
		goal := pipeline.GoalSeek(report.ActualAvailableHours, report.ActualUsageHours, *target)
		printGoalSeek(goal)

		if *out != "" {
			path := *out
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.OutputDir, path)
			}
			must(pipeline.ExportReportToXLSX(report, &goal, path))
			fmt.Printf("report written to %s\n", path)
		}

	case "report:history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		limit := fs.Int("limit", 10, "max runs to show")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" {
			must(fmt.Errorf("--equipment is required"))
		}
		runs, err := db.ListCalcRuns(*equipment, *limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("%s %s~%s B=%.1f F=%.1f G=%.2f%% H=%.2f%%\n",
				run.CreatedAt, run.StartDate, run.EndDate,
				run.ActualAvailableHours, run.ActualUsageHours,
				run.UtilizationRate*100, run.ExternalRate*100)
		}
		fmt.Printf("%d runs\n", len(runs))

	case "template:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "template.xlsx", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		path := *out
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.OutputDir, path)
		}
		must(pipeline.WriteImportTemplate(path))
		fmt.Printf("template written to %s\n", path)

	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		equipment := fs.String("equipment", "", "equipment name")
		from := fs.String("from", "", "window start YYYY-MM-DD")
		to := fs.String("to", "", "window end YYYY-MM-DD")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *equipment == "" || *out == "" {
			must(fmt.Errorf("--equipment and --out are required"))
		}
		st, err := sheetstore.Open(ctx, cfg)
		must(err)
		rows, err := st.FetchUsageLogRows(ctx, *equipment)
		must(err)
		if start, end, filtered := parseWindow(*from, *to); filtered {
			kept := rows[:0]
			for _, row := range rows {
				t, ok := util.ParseDate(row.Cells[internal.ColStartDate])
				if !ok || t.Before(start) || t.After(end) {
					continue
				}
				kept = append(kept, row)
			}
			rows = kept
		}
		path := *out
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.OutputDir, path)
		}
		must(pipeline.ExportUsageRowsToXLSX(rows, path))
		fmt.Printf("exported %d rows to %s\n", len(rows), path)

	default:
		usage()
		os.Exit(1)
	}
}

func printReport(report internal.UtilizationReport) {
	fmt.Printf("equipment=%s period=%s~%s workdays=%d\n",
		report.Equipment, util.FormatDate(report.Start), util.FormatDate(report.End), report.Workdays)
	fmt.Printf("A available=%.1f C maintenance=%.1f B actual-available=%.1f\n",
		report.AvailableHours, report.MaintenanceHours, report.ActualAvailableHours)
	fmt.Printf("D external=%.1f E internal=%.1f F actual-usage=%.1f\n",
		report.ExternalHours, report.InternalHours, report.ActualUsageHours)
	fmt.Printf("G utilization=%.2f%% H external-rate=%.2f%%\n",
		report.UtilizationRate*100, report.ExternalRate*100)

	if len(report.Diagnostics) > 0 {
		fmt.Println("no rows matched the window; recent rows as stored:")
		for _, diag := range report.Diagnostics {
			fmt.Printf("  row=%d date=%q parsed=%q hours=%q type=%q\n",
				diag.RowIndex, diag.RawDate, diag.ParsedDate, diag.RawHours, diag.UsageType)
		}
	}
}

func printGoalSeek(goal internal.GoalSeekResult) {
	switch goal.Outcome {
	case internal.GoalDeficit:
		fmt.Printf("target %.1f%%: %.1f more hours needed (target usage %.1f)\n",
			goal.TargetRate, goal.Magnitude, goal.TargetUsageHours)
	case internal.GoalSurplus:
		fmt.Printf("target %.1f%%: met with %.1f hours to spare\n", goal.TargetRate, goal.Magnitude)
	case internal.GoalUnavailable:
		fmt.Printf("target %.1f%%: no available hours in this window, rate undefined\n", goal.TargetRate)
	}
}

func parseWindow(from, to string) (time.Time, time.Time, bool) {
	if from == "" && to == "" {
		return time.Time{}, time.Time{}, false
	}
	start, ok := util.ParseDate(from)
	if !ok {
		start = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	end, ok := util.ParseDate(to)
	if !ok {
		end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return start, end, true
}

func yn(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

func usage() {
	fmt.Println("usage: usagelog <command>")
	fmt.Println("commands:")
	fmt.Println("  master:sync")
	fmt.Println("  log:append --equipment=... --start=YYYY-MM-DD [--usage-type=external] [--company=...] [--hours=4] ...")
	fmt.Println("  log:list --equipment=... [--from=YYYY-MM-DD --to=YYYY-MM-DD]")
	fmt.Println("  log:update --equipment=... --row=N --col=usage_hours --value=...")
	fmt.Println("  log:delete --equipment=... --row=N")
	fmt.Println("  maintenance:add --equipment=... --start=YYYY-MM-DD --hours=2 [--content=...]")
	fmt.Println("  import:run --input=candidates.xlsx [--type=xlsx|html] [--apply]")
	fmt.Println("  report:utilization --equipment=... --from=YYYY-MM-DD --to=YYYY-MM-DD [--target=70] [--out=report.xlsx]")
	fmt.Println("  report:history --equipment=... [--limit=10]")
	fmt.Println("  template:xlsx [--out=template.xlsx]")
	fmt.Println("  export:xlsx --equipment=... --out=log.xlsx [--from=YYYY-MM-DD --to=YYYY-MM-DD]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
