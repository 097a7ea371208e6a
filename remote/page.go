package remote

var htmlPage = `<html>
<head>
	<title>S16 Emulator</title>
</head>
<body style="background-color: #1E1E1E; color: white; font-family: monospace;">
	<h1 style="display: inline-block;">S16 Emulator</h1>
	<button id="runButton" style="margin-left: 40px; height: 32px; width: 80px;">RUN</button>
	<button id="stepButton" style="height: 32px; width: 80px;">STEP</button>
	<button id="resetButton" style="height: 32px; width: 80px;">RESET</button>
	<br/>
	<textarea id="source" rows="16" cols="60" spellcheck="false"
		style="background-color: black; color: white; font-family: monospace;"># type S16 assembly here
	LUI R1, 0
	HALT</textarea>
	<h2>Registers</h2>
	<div id="registers"></div>
	<h2>Console</h2>
	<div style="width: 60em; padding: 10px; background-color: black; height: 200px; overflow-y: auto; border: 2px solid white;" id="console"></div>

	<script>
		var socket = new WebSocket("ws://" + location.host + "/ws");
		var consoleText = "";

		socket.onmessage = function(event) {
			var data = JSON.parse(event.data);
			if (data.type == "console") {
				consoleText += data.text.replaceAll("\n", "<br/>");
				document.getElementById("console").innerHTML = consoleText;
			} else if (data.type == "state") {
				var text = "";
				for (var i = 0; i < 8; i++) {
					text += "R" + i + "=" + data.reg[i].toString(16).padStart(4, "0") + " ";
				}
				text += "<br/>PC=" + data.pc.toString(16).padStart(4, "0");
				text += " SP=" + data.sp.toString(16).padStart(4, "0");
				text += " FLAGS=" + data.flags.toString(2).padStart(4, "0");
				text += " [" + data.state + "] ticks=" + data.ticks;
				document.getElementById("registers").innerHTML = text;
			} else if (data.type == "error") {
				var where = data.line ? ("line " + data.line + ": ") : "";
				consoleText += "<span style='color: red;'>" + where + data.text + "</span><br/>";
				document.getElementById("console").innerHTML = consoleText;
			}
		};

		document.getElementById("runButton").onclick = function() {
			consoleText = "";
			document.getElementById("console").innerHTML = "";
			socket.send(JSON.stringify({type: "assemble", source: document.getElementById("source").value}));
			socket.send(JSON.stringify({type: "run"}));
		};
		document.getElementById("stepButton").onclick = function() {
			socket.send(JSON.stringify({type: "step", count: 1}));
		};
		document.getElementById("resetButton").onclick = function() {
			socket.send(JSON.stringify({type: "reset"}));
		};
	</script>
</body>
</html>`
