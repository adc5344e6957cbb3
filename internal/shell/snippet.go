package shell

// The snippets replace the interactive shell with a `script -af` capture of
// itself. Guards: stdout must be a tty, TTYLOG_ACTIVE blocks re-entry inside
// the captured shell, and the snippet only fires for its own shell so a
// bash-from-zsh child does not start a second capture. Each snippet also
// prunes capture files over the size ceiling and registers a per-prompt hook
// that feeds the last history line to `ttylog _record`.

func bashSnippet() string {
	return StartMarker + "\n" +
		`if [ -t 1 ] && [ -z "$TTYLOG_ACTIVE" ] && [ "${SHELL##*/}" = "bash" ]; then
    case "$-" in
    *i*) ;;
    *) return ;;
    esac
    export TTYLOG_ACTIVE=1
    LOG_ROOT="${TTYLOG_LOG_ROOT:-$HOME/.ttylog/logs}"
    LOGDIR="$LOG_ROOT/$(date +%Y/%m/%d)"
    mkdir -p "$LOGDIR"
    MAXSIZE="${TTYLOG_MAX_LOG_SIZE:-5000000}"
    find "$LOG_ROOT" -type f -size +"${MAXSIZE}"c -delete >/dev/null 2>&1 || true
    TTY_NAME="$(tty 2>/dev/null | tr '/' '_' || echo 'notty')"
    SHELL_NAME="${SHELL##*/}"
    SESSION_NAME="$(date +%Y%m%d-%H%M%S)-${TTY_NAME}-${SHELL_NAME}"
    export TTYLOG_SESSION="$SESSION_NAME"
    export TTYLOG_LAST_HISTCMD="$HISTCMD"
    LOGFILE="$LOGDIR/${SESSION_NAME}.log"
    TTYLOG_PROMPT_COMMAND='if [ "$TTYLOG_LAST_HISTCMD" != "$HISTCMD" ]; then ttylog _record "$(history 1)"; TTYLOG_LAST_HISTCMD="$HISTCMD"; fi'
    if [ -n "$PROMPT_COMMAND" ]; then
        TTYLOG_PROMPT_COMMAND="$TTYLOG_PROMPT_COMMAND; $PROMPT_COMMAND"
    fi
    export PROMPT_COMMAND="$TTYLOG_PROMPT_COMMAND"
    script -af "$LOGFILE"
    exit
fi
` + EndMarker + "\n"
}

func zshSnippet() string {
	return StartMarker + "\n" +
		`if [[ -t 1 && -z "$TTYLOG_ACTIVE" && "${SHELL##*/}" = "zsh" ]]; then
    case "$-" in
    *i*) ;;
    *) return ;;
    esac
    export TTYLOG_ACTIVE=1
    LOG_ROOT="${TTYLOG_LOG_ROOT:-$HOME/.ttylog/logs}"
    LOGDIR="$LOG_ROOT/$(date +%Y/%m/%d)"
    mkdir -p "$LOGDIR"
    MAXSIZE="${TTYLOG_MAX_LOG_SIZE:-5000000}"
    find "$LOG_ROOT" -type f -size +"${MAXSIZE}"c -delete >/dev/null 2>&1 || true
    TTY_NAME="$(tty 2>/dev/null | tr '/' '_' || echo 'notty')"
    SHELL_NAME="${SHELL##*/}"
    SESSION_NAME="$(date +%Y%m%d-%H%M%S)-${TTY_NAME}-${SHELL_NAME}"
    export TTYLOG_SESSION="$SESSION_NAME"
    export TTYLOG_LAST_COMMAND=""
    LOGFILE="$LOGDIR/${SESSION_NAME}.log"
    typeset -ga precmd_functions
    function __ttylog_precmd() {
        local cmd
        cmd="$(fc -ln -1 2>/dev/null | tail -n 1 | sed -e 's/^[[:space:]]*//')"
        if [[ -n "$cmd" && "$TTYLOG_LAST_COMMAND" != "$cmd" ]]; then
            TTYLOG_LAST_COMMAND="$cmd"
            ttylog _record "$cmd"
        fi
    }
    if [[ -z "${precmd_functions[(r)__ttylog_precmd]}" ]]; then
        precmd_functions+=(__ttylog_precmd)
    fi
    script -af "$LOGFILE"
    exit
fi
` + EndMarker + "\n"
}

func fishSnippet() string {
	return StartMarker + "\n" +
		`if status --is-interactive; and test -z "$TTYLOG_ACTIVE"; and test (basename "$SHELL") = "fish"
    set -gx TTYLOG_ACTIVE 1
    set -l log_root "$HOME/.ttylog/logs"
    if set -q TTYLOG_LOG_ROOT
        set log_root $TTYLOG_LOG_ROOT
    end
    set -l log_dir "$log_root/"(date "+%Y/%m/%d")
    mkdir -p $log_dir
    set -l max_size 5000000
    if set -q TTYLOG_MAX_LOG_SIZE
        set max_size $TTYLOG_MAX_LOG_SIZE
    end
    set -l size_flag (string join "" "+" $max_size "c")
    find $log_root -type f -size $size_flag -delete >/dev/null 2>&1; or true
    set -l tty_name (tty 2>/dev/null | string replace -a "/" "_")
    if test -z "$tty_name"
        set tty_name "notty"
    end
    set -l session_name (date "+%Y%m%d-%H%M%S")"-$tty_name-"(basename "$SHELL")
    set -gx TTYLOG_SESSION $session_name
    set -l log_file "$log_dir/$session_name.log"
    functions -q __ttylog_postexec; and functions -e __ttylog_postexec
    function __ttylog_postexec --on-event fish_postexec
        set -l last_cmd (history --max=1 | string trim)
        if test -n "$last_cmd"
            ttylog _record "$last_cmd"
        end
    end
    script -af "$log_file"
    exit
end
` + EndMarker + "\n"
}
