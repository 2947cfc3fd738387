package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"srvhelper/internal/errors"
	"srvhelper/internal/log"
	"srvhelper/pkg/types"
)

// CommandRunner is the Runner used in production. It drives winget and
// PowerShell and reports their results as Outcomes. Failures are never
// retried here; the operator re-attempts from the menu.
type CommandRunner struct {
	sh         shell
	backupsDir string
	now        func() time.Time
}

// NewRunner creates a CommandRunner writing backups to backupsDir.
func NewRunner(backupsDir string) *CommandRunner {
	return &CommandRunner{
		sh:         execShell{},
		backupsDir: backupsDir,
		now:        time.Now,
	}
}

// Run dispatches an action id to its implementation.
func (r *CommandRunner) Run(ctx context.Context, actionID string, path string) types.Outcome {
	a, ok := Lookup(actionID)
	if !ok {
		err := errors.NewActionError("unknown action", actionID, errors.ActionUnknown, nil)
		log.Errorf("%v", err)
		return types.Outcome{Message: fmt.Sprintf("Unknown action: %s", actionID)}
	}

	log.WithFields(log.Fields{"action": a.ID, "path": path}).Info("running action")

	var out types.Outcome
	switch a.ID {
	case CheckWinget:
		out = r.checkWinget(ctx)
	case InstallWinget:
		out = r.installWinget(ctx)
	case CheckNetBird:
		out = r.checkNetBird(ctx)
	case InstallNetBird:
		out = r.installNetBird(ctx)
	case BackupRoles:
		out = r.backupRoles(ctx)
	case RestoreRoles:
		out = r.restoreRoles(ctx, path)
	default:
		// quit belongs to the application loop and is never dispatched here
		out = types.Outcome{Message: fmt.Sprintf("Action %s cannot be run", a.ID)}
	}

	if !out.Success {
		ferr := errors.NewActionError("action failed", a.ID, errors.ActionFailed, nil)
		log.WithFields(log.Fields{"action": ferr.ActionID()}).Error(ferr.Error())
	}
	log.WithFields(log.Fields{"action": a.ID, "success": out.Success}).Info("action finished")
	return out
}

func (r *CommandRunner) checkWinget(ctx context.Context) types.Outcome {
	stdout, _, err := r.sh.run(ctx, "winget", "--version")
	if err != nil {
		return types.Outcome{Message: "Winget is not installed"}
	}
	return types.Outcome{
		Success: true,
		Message: fmt.Sprintf("Winget is installed: %s", strings.TrimSpace(stdout)),
	}
}

// installWinget bootstraps winget on Windows Server, where the app
// installer isn't preinstalled: its two appx dependencies first, then the
// DesktopAppInstaller bundle itself.
func (r *CommandRunner) installWinget(ctx context.Context) types.Outcome {
	tempDir := filepath.Join(os.TempDir(), "winget_install")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to create temp directory: %v", err)}
	}

	vclibs := filepath.Join(tempDir, "Microsoft.VCLibs.x64.14.00.Desktop.appx")
	log.Infof("downloading Microsoft.VCLibs")
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Invoke-WebRequest -Uri 'https://aka.ms/Microsoft.VCLibs.x64.14.00.Desktop.appx' -OutFile '%s'", vclibs)); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to download VCLibs: %v", err)}
	}

	xamlPkg := filepath.Join(tempDir, "microsoft.ui.xaml.2.8.6.nupkg")
	log.Infof("downloading Microsoft.UI.Xaml")
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Invoke-WebRequest -Uri 'https://www.nuget.org/api/v2/package/Microsoft.UI.Xaml/2.8.6' -OutFile '%s'", xamlPkg)); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to download UI.Xaml: %v", err)}
	}

	xamlDir := filepath.Join(tempDir, "xaml_extract")
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Expand-Archive -Path '%s' -DestinationPath '%s' -Force", xamlPkg, xamlDir)); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to extract UI.Xaml: %v", err)}
	}
	xamlAppx := filepath.Join(xamlDir, "tools", "AppX", "x64", "Release", "Microsoft.UI.Xaml.2.8.appx")

	bundle := filepath.Join(tempDir, "Microsoft.DesktopAppInstaller.msixbundle")
	log.Infof("downloading winget bundle")
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Invoke-WebRequest -Uri 'https://github.com/microsoft/winget-cli/releases/latest/download/Microsoft.DesktopAppInstaller_8wekyb3d8bbwe.msixbundle' -OutFile '%s'", bundle)); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to download Winget: %v", err)}
	}

	// Dependency install problems are logged but not fatal; the bundle
	// install below is the authoritative step
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf("Add-AppxPackage -Path '%s'", vclibs)); err != nil {
		log.Warnf("VCLibs install issue: %v", err)
	}
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf("Add-AppxPackage -Path '%s'", xamlAppx)); err != nil {
		log.Warnf("UI.Xaml install issue: %v", err)
	}

	_, stderr, err := powershell(ctx, r.sh, fmt.Sprintf("Add-AppxPackage -Path '%s'", bundle))
	if err != nil {
		if stderr != "" {
			return types.Outcome{Message: fmt.Sprintf("Installation failed: %s", strings.TrimSpace(stderr))}
		}
		return types.Outcome{Message: fmt.Sprintf("Failed to install Winget: %v", err)}
	}

	if check := r.checkWinget(ctx); check.Success {
		return types.Outcome{
			Success: true,
			Message: fmt.Sprintf("Winget installed successfully!\n%s", check.Message),
		}
	}
	return types.Outcome{
		Success: true,
		Message: "Installation completed. You may need to restart your terminal or system.",
	}
}

func (r *CommandRunner) checkNetBird(ctx context.Context) types.Outcome {
	stdout, _, err := r.sh.run(ctx, "netbird", "version")
	if err == nil {
		return types.Outcome{
			Success: true,
			Message: fmt.Sprintf("NetBird is installed: %s", strings.TrimSpace(stdout)),
		}
	}

	// Not on PATH; probe the default install location
	programFiles := os.Getenv("ProgramFiles")
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	binPath := filepath.Join(programFiles, "NetBird", "netbird.exe")
	if _, statErr := os.Stat(binPath); statErr == nil {
		return types.Outcome{
			Success: true,
			Message: fmt.Sprintf("NetBird is installed at: %s", binPath),
		}
	}
	return types.Outcome{Message: "NetBird is not installed"}
}

func (r *CommandRunner) installNetBird(ctx context.Context) types.Outcome {
	if winget := r.checkWinget(ctx); winget.Success {
		log.Infof("installing NetBird via winget")
		stdout, stderr, err := r.sh.run(ctx, "winget",
			"install", "--id", "NetBird.NetBird", "-e",
			"--accept-source-agreements", "--accept-package-agreements")
		return parseWingetInstall(stdout, stderr, err)
	}

	// No winget; fall back to the standalone installer
	log.Infof("winget not available, using PowerShell installer")
	_, stderr, err := r.sh.run(ctx, "powershell",
		"-ExecutionPolicy", "Bypass",
		"-Command",
		"Invoke-WebRequest -Uri 'https://github.com/netbirdio/netbird/releases/latest/download/netbird_installer_windows_amd64.exe' -OutFile \"$env:TEMP\\netbird_installer.exe\"; Start-Process -FilePath \"$env:TEMP\\netbird_installer.exe\" -ArgumentList '/S' -Wait")
	if err != nil {
		if stderr != "" {
			return types.Outcome{Message: fmt.Sprintf("Installation failed: %s", strings.TrimSpace(stderr))}
		}
		return types.Outcome{Message: fmt.Sprintf("Failed to install NetBird: %v", err)}
	}

	if check := r.checkNetBird(ctx); check.Success {
		return types.Outcome{
			Success: true,
			Message: fmt.Sprintf("NetBird installed successfully!\n%s\n\nTo connect, run:\n  netbird up", check.Message),
		}
	}
	return types.Outcome{
		Success: true,
		Message: "Installation completed. You may need to restart your terminal.",
	}
}

// parseWingetInstall turns winget install output into an Outcome. winget's
// exit status is unreliable for some sources, so the output text decides.
func parseWingetInstall(stdout, stderr string, runErr error) types.Outcome {
	switch {
	case runErr == nil || strings.Contains(stdout, "Successfully installed"):
		return types.Outcome{
			Success: true,
			Message: "NetBird installed successfully via winget!\n\nTo connect, run:\n  netbird up",
		}
	case strings.Contains(stdout, "already installed"):
		return types.Outcome{Success: true, Message: "NetBird is already installed."}
	default:
		return types.Outcome{
			Message: fmt.Sprintf("Installation may have failed:\n%s\n%s",
				strings.TrimSpace(stdout), strings.TrimSpace(stderr)),
		}
	}
}

// backupFileNames returns the timestamped export and readable-list paths
// for a backup taken at ts.
func backupFileNames(dir string, ts int64) (backupFile, listFile string) {
	backupFile = filepath.Join(dir, fmt.Sprintf("ServerRoles_%d.xml", ts))
	listFile = filepath.Join(dir, fmt.Sprintf("InstalledFeatures_%d.txt", ts))
	return backupFile, listFile
}

func (r *CommandRunner) backupRoles(ctx context.Context) types.Outcome {
	if err := os.MkdirAll(r.backupsDir, 0o755); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to create backup directory: %v", err)}
	}

	backupFile, listFile := backupFileNames(r.backupsDir, r.now().Unix())

	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Get-WindowsFeature | Where-Object {$_.Installed -eq $true} | Export-Clixml -Path '%s'", backupFile)); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to export roles: %v", err)}
	}

	// The human-readable list is best-effort
	if _, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"Get-WindowsFeature | Where-Object {$_.Installed -eq $true} | Select-Object Name, DisplayName, FeatureType | Format-Table -AutoSize | Out-File -FilePath '%s' -Width 200", listFile)); err != nil {
		log.Warnf("could not create readable list: %v", err)
	}

	info, err := os.Stat(backupFile)
	if err != nil {
		return types.Outcome{Message: "Failed to create backup file. Ensure you are running as Administrator."}
	}
	if info.Size() == 0 {
		return types.Outcome{Message: "Backup file was created but appears empty. Ensure you have admin rights."}
	}

	return types.Outcome{
		Success: true,
		Message: fmt.Sprintf(
			"Server Roles and Features backed up successfully!\n\nBackup location:\n  %s\n\nReadable list:\n  %s\n\nTo restore on another server, use the Restore menu entry and pick this file.",
			backupFile, listFile),
	}
}

func (r *CommandRunner) restoreRoles(ctx context.Context, backupFile string) types.Outcome {
	if backupFile == "" {
		return types.Outcome{Message: "No backup file selected."}
	}
	if _, err := os.Stat(backupFile); err != nil {
		return types.Outcome{Message: fmt.Sprintf("Backup file not found: %s", backupFile)}
	}

	// List the feature names first so the result can show what was processed
	preview, _, err := powershell(ctx, r.sh, fmt.Sprintf(
		"$features = Import-Clixml -Path '%s'; $features | Where-Object {$_.Installed -eq $true} | Select-Object -ExpandProperty Name", backupFile))
	if err != nil {
		return types.Outcome{Message: fmt.Sprintf("Failed to read backup file: %v", err)}
	}

	stdout, stderr, err := powershell(ctx, r.sh, fmt.Sprintf(
		"$features = Import-Clixml -Path '%s'; "+
			"$toInstall = $features | Where-Object {$_.Installed -eq $true} | Select-Object -ExpandProperty Name; "+
			"if ($toInstall) { Install-WindowsFeature -Name $toInstall -IncludeManagementTools -ErrorAction SilentlyContinue | Out-String } else { 'No features to install' }", backupFile))
	if err != nil {
		return types.Outcome{
			Message: fmt.Sprintf("Restoration encountered errors:\n%s\n%s",
				strings.TrimSpace(stdout), strings.TrimSpace(stderr)),
		}
	}

	msg := fmt.Sprintf("Server Roles and Features restoration completed!\n\nFeatures processed:\n%s\n\nOutput:\n%s",
		strings.TrimSpace(preview), strings.TrimSpace(stdout))
	if restartRequired(stdout) {
		msg += "\n\nA system restart is required to complete the installation."
	}
	return types.Outcome{Success: true, Message: msg}
}

// restartRequired reports whether Install-WindowsFeature output indicates a
// pending restart. The value is read from the RestartNeeded field itself,
// covering both the list layout ("RestartNeeded : Yes") and the table
// layout, where the "Restart Needed" header names a column and the values
// sit below it.
func restartRequired(stdout string) bool {
	lines := strings.Split(stdout, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "RestartNeeded"); idx >= 0 {
			if strings.Contains(line[idx:], "Yes") {
				return true
			}
			continue
		}
		idx := strings.Index(line, "Restart Needed")
		if idx < 0 {
			continue
		}
		for _, row := range lines[i+1:] {
			if len(row) > idx && strings.HasPrefix(row[idx:], "Yes") {
				return true
			}
		}
	}
	return false
}
